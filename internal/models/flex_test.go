package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlexInt(t *testing.T) {
	cases := []struct {
		in   string
		want FlexInt
	}{
		{`3`, 3},
		{`"3"`, 3},
		{`" 2 pessoas"`, 2},
		{`"abc"`, 0},
		{`null`, 0},
		{`4.0`, 4},
	}
	for _, tc := range cases {
		var n FlexInt
		require.NoError(t, json.Unmarshal([]byte(tc.in), &n), tc.in)
		assert.Equal(t, tc.want, n, tc.in)
	}

	var n FlexInt
	assert.Error(t, json.Unmarshal([]byte(`true`), &n))
}

func TestFlexString(t *testing.T) {
	var s FlexString
	require.NoError(t, json.Unmarshal([]byte(`482913`), &s))
	assert.Equal(t, FlexString("482913"), s)

	require.NoError(t, json.Unmarshal([]byte(`"012345"`), &s))
	assert.Equal(t, FlexString("012345"), s)

	assert.Error(t, json.Unmarshal([]byte(`{}`), &s))
}

func TestRegisterRequest_AcceptsStringSizes(t *testing.T) {
	var req RegisterRequest
	body := `{"phoneNumber":"11987654321","name":"Maria","selectedBoxSize":"2","deliveryDay":"sexta","householdSize":"3"}`
	require.NoError(t, json.Unmarshal([]byte(body), &req))
	assert.Equal(t, FlexInt(2), req.SelectedBoxSize)
	assert.Equal(t, FlexInt(3), req.HouseholdSize)
}

func TestFlexBool(t *testing.T) {
	cases := []struct {
		in   string
		want FlexBool
	}{
		{`true`, true},
		{`false`, false},
		{`"false"`, false},
		{`"true"`, true},
		{`"on"`, true},
	}
	for _, tc := range cases {
		var v FlexBool
		require.NoError(t, json.Unmarshal([]byte(tc.in), &v), tc.in)
		assert.Equal(t, tc.want, v, tc.in)
	}

	var body struct {
		IsActive *FlexBool `json:"isActive"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{}`), &body))
	assert.Nil(t, body.IsActive.Ptr())
	require.NoError(t, json.Unmarshal([]byte(`{"isActive":"false"}`), &body))
	require.NotNil(t, body.IsActive.Ptr())
	assert.False(t, *body.IsActive.Ptr())
}

func TestFlexFloat(t *testing.T) {
	cases := []struct {
		in   string
		want FlexFloat
	}{
		{`12.5`, 12.5},
		{`"12.5"`, 12.5},
		{`"12,5"`, 12.5},
		{`""`, 0},
		{`null`, 0},
	}
	for _, tc := range cases {
		var f FlexFloat
		require.NoError(t, json.Unmarshal([]byte(tc.in), &f), tc.in)
		assert.InDelta(t, float64(tc.want), float64(f), 0.0001, tc.in)
	}

	var f FlexFloat
	assert.Error(t, json.Unmarshal([]byte(`"doze"`), &f))
}
