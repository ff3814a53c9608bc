package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type amounts struct {
	Currency string           `binding:"required,currency"`
	Money    decimal.Decimal  `binding:"money"`
	Weight   decimal.Decimal  `binding:"weight"`
	Rate     decimal.Decimal  `binding:"rate"`
	Optional *decimal.Decimal `binding:"omitempty,money"`
}

func valid() amounts {
	return amounts{
		Currency: "MAD",
		Money:    decimal.RequireFromString("12.50"),
		Weight:   decimal.RequireFromString("3.125"),
		Rate:     decimal.RequireFromString("63.123456"),
	}
}

func TestValidators(t *testing.T) {
	require.NoError(t, RegisterValidators())

	tooPrecise := decimal.RequireFromString("1.001")

	tests := []struct {
		name    string
		mutate  func(a *amounts)
		wantErr bool
	}{
		{name: "valid", mutate: func(a *amounts) {}},
		{name: "lowercase currency", mutate: func(a *amounts) { a.Currency = "cfa" }},
		{name: "currency too long", mutate: func(a *amounts) { a.Currency = "EURO" }, wantErr: true},
		{name: "currency with digits", mutate: func(a *amounts) { a.Currency = "M4D" }, wantErr: true},
		{name: "zero money", mutate: func(a *amounts) { a.Money = decimal.Zero }},
		{name: "negative money", mutate: func(a *amounts) { a.Money = decimal.NewFromInt(-1) }, wantErr: true},
		{name: "money with three places", mutate: func(a *amounts) { a.Money = tooPrecise }, wantErr: true},
		{name: "weight with four places", mutate: func(a *amounts) { a.Weight = decimal.RequireFromString("1.0005") }, wantErr: true},
		{name: "rate with seven places", mutate: func(a *amounts) { a.Rate = decimal.RequireFromString("0.0158731") }, wantErr: true},
		{name: "optional money too precise", mutate: func(a *amounts) { a.Optional = &tooPrecise }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := valid()
			tt.mutate(&a)
			err := binding.Validator.ValidateStruct(&a)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestQueryCurrency(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name   string
		query  string
		want   string
		wantOK bool
	}{
		{name: "default", query: "", want: "CFA", wantOK: true},
		{name: "uppercased", query: "?currency=mad", want: "MAD", wantOK: true},
		{name: "malformed", query: "?currency=12", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/"+tt.query, nil)

			got, ok := queryCurrency(c, "CFA")
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			} else {
				assert.Equal(t, http.StatusBadRequest, w.Code)
			}
		})
	}
}
