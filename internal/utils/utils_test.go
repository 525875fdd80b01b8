package utils

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pg-bridge-api/internal/constant"
)

func TestFlexibleMsg(t *testing.T) {
	cases := map[string]string{
		`{"message":"Invalid credentials"}`:                               "Invalid credentials",
		`{"message":{"currency":"not supported","amount":["too small"]}}`: `amount: ["too small"]; currency: not supported`,
		`{"message":["a","b"]}`:                                           `["a","b"]`,
		`{"message":null}`:                                                "",
	}
	for in, want := range cases {
		var out struct {
			Message FlexibleMsg `json:"message"`
		}
		require.NoError(t, json.Unmarshal([]byte(in), &out), in)
		assert.Equal(t, want, out.Message.Text, in)
	}
}

func TestStringOrNumber(t *testing.T) {
	var out struct {
		Code   StringOrNumber `json:"code"`
		Amount StringOrNumber `json:"amount"`
		Paid   StringOrNumber `json:"paid"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"code":422,"amount":" 3065.00 ","paid":null}`), &out))
	assert.Equal(t, StringOrNumber("422"), out.Code)
	assert.Equal(t, StringOrNumber("3065.00"), out.Amount)
	assert.Equal(t, StringOrNumber(""), out.Paid)

	assert.Error(t, json.Unmarshal([]byte(`{"code":true}`), &out))
}

func TestSignRoundTrip(t *testing.T) {
	params := map[string]string{"mall_id": "demo", "timestamp": "1700000000000", "body": "", "path": "/admin/link"}
	assert.Equal(t, "mall_id=demo&path=/admin/link&timestamp=1700000000000", CanonicalString(params))

	params["sign"] = GenerateSign(params, "secret")
	assert.True(t, VerifySign(params, "secret"))
	assert.False(t, VerifySign(params, "other"))

	delete(params, "sign")
	assert.False(t, VerifySign(params, "secret"))
}

func TestTimestampWindow(t *testing.T) {
	now := time.UnixMilli(1700000000000)
	ts, err := ParseTimestamp("1699999990000")
	require.NoError(t, err)
	assert.True(t, IsTimestampValid(ts, now, 30*time.Second))
	assert.False(t, IsTimestampValid(ts, now, 5*time.Second))
	assert.True(t, IsTimestampValid(now.Add(2*time.Second), now, 5*time.Second))

	_, err = ParseTimestamp("yesterday")
	assert.Error(t, err)
}

type bindTarget struct {
	OrderID  string `json:"order_id" binding:"required"`
	Currency string `json:"currency" binding:"required,len=3"`
	Action   string `json:"action" binding:"omitempty,oneof=enable disable"`
}

func TestValidationMsg(t *testing.T) {
	err := binding.Validator.ValidateStruct(&bindTarget{Currency: "PESO", Action: "flip"})
	require.Error(t, err)
	assert.Equal(t, "order_id is required; currency must have length 3; action must be one of [enable disable]", ValidationMsg(err))
	assert.Equal(t, "shop_no", toSnake("ShopNo"))
	assert.Equal(t, "return_url_base", toSnake("ReturnURLBase"))
}

func TestErrorResponses(t *testing.T) {
	resp := FromError(constant.NewError(constant.CodeOrderNotFound).WithData(map[string]string{"order_id": "1"}), "trace-1")
	assert.Equal(t, constant.CodeOrderNotFound, resp.Code)
	assert.Equal(t, "trace-1", resp.TraceID)
	assert.NotEmpty(t, resp.MsgEN)
	assert.Equal(t, map[string]string{"order_id": "1"}, resp.Data)

	assert.Equal(t, "Unknown error", Error(987654).MsgEN)
	assert.Equal(t, constant.CodeSuccess, Success(nil).Code)
}
