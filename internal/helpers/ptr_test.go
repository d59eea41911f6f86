package helpers_test

import (
	"testing"

	"github.com/isometry/lambda-http-server/internal/helpers"
	"github.com/stretchr/testify/assert"
)

func TestPtr(t *testing.T) {
	testCases := []struct {
		Name  string
		Input any
	}{
		{Name: "nil", Input: nil},
		{Name: "string", Input: "p"},
		{Name: "int", Input: 8000},
		{Name: "map", Input: map[string]string{"HOST": "localhost"}},
	}

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			if tc.Input == nil {
				assert.Nil(t, helpers.Ptr(tc.Input))
				return
			}
			assert.Equal(t, &tc.Input, helpers.Ptr(tc.Input))
		})
	}
}
