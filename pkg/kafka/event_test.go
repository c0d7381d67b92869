package kafka

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEvent(t *testing.T) {
	event, err := NewEvent("catalog.product.created", "42", "product", "catalog", map[string]string{"code": "MUG"})
	require.NoError(t, err)

	assert.NotEmpty(t, event.EventID)
	assert.Equal(t, "catalog.product.created", event.EventType)
	assert.Equal(t, "42", event.AggregateID)
	assert.Equal(t, "product", event.AggregateType)
	assert.False(t, event.Timestamp.IsZero())
}

func TestEventRoundTrip(t *testing.T) {
	event, err := NewEvent("catalog.product.updated", "42", "product", "catalog", map[string]string{"code": "MUG"})
	require.NoError(t, err)

	raw, err := event.Marshal()
	require.NoError(t, err)

	decoded, err := UnmarshalEvent(raw)
	require.NoError(t, err)
	assert.Equal(t, event.EventID, decoded.EventID)

	var data struct {
		Code string `json:"code"`
	}
	require.NoError(t, decoded.UnmarshalData(&data))
	assert.Equal(t, "MUG", data.Code)
}

func TestUnmarshalEvent_Invalid(t *testing.T) {
	_, err := UnmarshalEvent([]byte("{not json"))
	assert.Error(t, err)
}

func TestTopic(t *testing.T) {
	assert.Equal(t, "catalog.product.created", Topic("product", "created"))
}
