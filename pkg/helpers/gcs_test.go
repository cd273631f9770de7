package helpers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestExportObjectPath(t *testing.T) {
	at := time.Date(2024, 1, 2, 15, 4, 5, 0, time.FixedZone("x", 3600))
	assert.Equal(t, "exports/contacts-20240102T140405Z.json", ExportObjectPath("contacts", at))
	assert.Equal(t, "gs://bucket/exports/a.json", ObjectURI("bucket", "exports/a.json"))
}
