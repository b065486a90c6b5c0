package fetcher

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SantaJordan/blueprint-gtm-playbooks-sub000/internal/model"
)

func TestDecodeJSONArray(t *testing.T) {
	input := `[{"name":"Acme Dental","city":"Austin"},{"name":"Beta Clinic","phone":5125550100}]`

	ch, errCh := DecodeJSONArray[model.EntityQuery](context.Background(), strings.NewReader(input))

	var got []model.EntityQuery
	for q := range ch {
		got = append(got, q)
	}
	for err := range errCh {
		require.NoError(t, err)
	}

	require.Len(t, got, 2)
	assert.Equal(t, "Acme Dental", got[0].Name)
	assert.Equal(t, "Austin", got[0].City)
	assert.Equal(t, "5125550100", got[1].Phone)
}

func TestDecodeJSONArray_NotArray(t *testing.T) {
	ch, errCh := DecodeJSONArray[model.EntityQuery](context.Background(), strings.NewReader(`{"name":"x"}`))
	for range ch {
	}
	assert.Error(t, <-errCh)
}

func TestDecodeJSONArray_Empty(t *testing.T) {
	ch, errCh := DecodeJSONArray[model.EntityQuery](context.Background(), strings.NewReader(""))
	n := 0
	for range ch {
		n++
	}
	assert.NoError(t, <-errCh)
	assert.Zero(t, n)
}

func TestDecodeJSONLines(t *testing.T) {
	input := "{\"name\":\"Acme\"}\n\n{\"company\":\"Beta LLC\",\"state\":\"TX\"}\n"

	ch, errCh := DecodeJSONLines[model.EntityQuery](context.Background(), strings.NewReader(input))
	var got []model.EntityQuery
	for q := range ch {
		got = append(got, q)
	}
	require.NoError(t, <-errCh)
	require.Len(t, got, 2)
	assert.Equal(t, "Beta LLC", got[1].Name)
	assert.Equal(t, "TX", got[1].State)
}

func TestDecodeJSONLines_BadLine(t *testing.T) {
	input := "{\"name\":\"Acme\"}\n{not json}\n"

	ch, errCh := DecodeJSONLines[model.EntityQuery](context.Background(), strings.NewReader(input))
	n := 0
	for range ch {
		n++
	}
	err := <-errCh
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
	assert.Equal(t, 1, n)
}
