package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Ramsey-B/clover/pkg/refdata"
)

func TestParsePrice(t *testing.T) {
	tables := refdata.Default()

	tests := []struct {
		name string
		text string
		want PriceInfo
	}{
		{
			name: "plain number",
			text: "1500",
			want: PriceInfo{Amount: 1500, Known: true},
		},
		{
			name: "free keyword spanish",
			text: "Gratis",
			want: PriceInfo{IsFree: true, Known: true},
		},
		{
			name: "free keyword phrase",
			text: "Entrada libre",
			want: PriceInfo{IsFree: true, Known: true},
		},
		{
			name: "free keyword wins over numeric noise",
			text: "Free entry, $5 drink minimum",
			want: PriceInfo{IsFree: true, Known: true},
		},
		{
			name: "unknown price keyword",
			text: "a consultar",
			want: PriceInfo{IsFree: false, Known: false},
		},
		{
			name: "thousands dot locale",
			text: "$1.500",
			want: PriceInfo{Amount: 1500, Known: true},
		},
		{
			name: "decimal comma with brl marker",
			text: "R$ 50,00",
			want: PriceInfo{Amount: 50, Known: true, Currency: "BRL"},
		},
		{
			name: "both separators english locale",
			text: "1,234.56",
			want: PriceInfo{Amount: 1234.56, Known: true},
		},
		{
			name: "both separators latin locale",
			text: "1.234,56",
			want: PriceInfo{Amount: 1234.56, Known: true},
		},
		{
			name: "euro sign",
			text: "15,50€",
			want: PriceInfo{Amount: 15.5, Known: true, Currency: "EUR"},
		},
		{
			name: "currency code",
			text: "USD 20",
			want: PriceInfo{Amount: 20, Known: true, Currency: "USD"},
		},
		{
			name: "prefixed text",
			text: "desde $2.500",
			want: PriceInfo{Amount: 2500, Known: true},
		},
		{
			name: "explicit zero is free",
			text: "0",
			want: PriceInfo{Amount: 0, IsFree: true, Known: true},
		},
		{
			name: "no digits no keywords",
			text: "???",
			want: PriceInfo{},
		},
		{
			name: "empty",
			text: "",
			want: PriceInfo{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParsePrice(tt.text, tables))
		})
	}
}
