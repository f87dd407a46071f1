package money

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// DefaultCurrency YooKassaの基準通貨
const DefaultCurrency = "RUB"

// minorExponent 最小単位（コペイカ）と主単位（ルーブル）の桁差
const minorExponent = 2

// Amount YooKassa形式の金額（主単位の10進文字列と通貨コード）
type Amount struct {
	Value    string `json:"value"`
	Currency string `json:"currency"`
}

// NewAmount 最小単位の整数からYooKassa形式の金額を作成
func NewAmount(minor int64, currency string) Amount {
	return Amount{
		Value:    FormatMinor(minor),
		Currency: currency,
	}
}

// Minor 最小単位の整数に変換
func (a Amount) Minor() (int64, error) {
	return ParseMajor(a.Value)
}

// FormatMinor 最小単位の整数を小数点以下2桁固定の主単位文字列に変換
// 例: 10000 -> "100.00"
func FormatMinor(minor int64) string {
	return decimal.New(minor, -minorExponent).StringFixed(minorExponent)
}

// ParseMajor 主単位の10進文字列を最小単位の整数に変換
// 1コペイカ未満の端数は四捨五入せず切り捨てる
func ParseMajor(value string) (int64, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return 0, fmt.Errorf("invalid amount value %q: %w", value, err)
	}
	return d.Shift(minorExponent).IntPart(), nil
}
