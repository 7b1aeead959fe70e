package repositories

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// The decision update must only land on the status the decision was read
// against, so a racing decision hits zero rows instead of overwriting an
// accepted application.
func TestUpdateApplicationStatusGuardsCurrentStatus(t *testing.T) {
	assert.Contains(t, updateApplicationStatusQuery, "AND status = $7")
}
