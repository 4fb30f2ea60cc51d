package entity_test

import (
	"encoding/json"
	"testing"

	"github.com/MatthewAmericana/Pickup-Order-Auto-Reassign/internal/entity"

	"github.com/stretchr/testify/require"
)

func TestOrder_UnmarshalJSON(t *testing.T) {
	testCases := []struct {
		desc         string
		payload      string
		expectedID   entity.ExternalID
		expectedTags entity.Tags
		expectErr    bool
	}{
		{
			desc:         "NumericIDAndStringTags",
			payload:      `{"id": 5678901234567890123, "name": "#1001", "tags": "pickup-order, VIP ,"}`,
			expectedID:   "5678901234567890123",
			expectedTags: entity.Tags{"pickup-order", "VIP"},
		},
		{
			desc:         "StringIDAndArrayTags",
			payload:      `{"id": "gid://shop/Order/42", "name": "#1002", "tags": ["a", " ", "b"]}`,
			expectedID:   "gid://shop/Order/42",
			expectedTags: entity.Tags{"a", "b"},
		},
		{
			desc:         "NullFields",
			payload:      `{"id": null, "name": "#1003", "tags": null, "shipping_lines": null}`,
			expectedID:   "",
			expectedTags: nil,
		},
		{
			desc:      "InvalidTags",
			payload:   `{"id": 1, "name": "#1004", "tags": 12}`,
			expectErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			var order entity.Order
			err := json.Unmarshal([]byte(tc.payload), &order)
			if tc.expectErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.expectedID, order.ID)
			require.Equal(t, tc.expectedTags, order.Tags)
		})
	}
}

func TestOutcome_Processed(t *testing.T) {
	require.True(t, entity.OutcomeSuccess.Processed())
	require.True(t, entity.OutcomePartialFailure.Processed())
	require.False(t, entity.OutcomeNotPickup.Processed())
	require.False(t, entity.OutcomeOrderNotSynced.Processed())
	require.False(t, entity.OutcomeError.Processed())
}
