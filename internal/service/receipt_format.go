package service

import (
	"fmt"
	"strings"
	"time"
	_ "time/tzdata" // receipt timezone must resolve without system tzdata
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/tappress/checkbox/internal/model"
)

// Line width bounds for plaintext receipts.
const (
	DefaultLineLength = 32
	MinLineLength     = 20
	MaxLineLength     = 50
)

const receiptTimeLayout = "02.01.2006 15:04"

var kyivLocation = mustLoadLocation("Europe/Kyiv")

func mustLoadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(err)
	}
	return loc
}

// FormatReceipt renders a receipt as fixed-width plaintext. Widths count
// runes, padding is a no-op once a fragment no longer fits, and overlong
// product names are never wrapped or truncated, so the layout degrades the
// same way on every run.
func FormatReceipt(receipt *model.Receipt, lineLength int) string {
	lines := []string{
		center("checkbox.ua", lineLength),
		strings.Repeat("=", lineLength),
	}

	for _, product := range receipt.Products {
		quantityPrice := padLeft(
			fmt.Sprintf("%.2f x %s", float64(product.Quantity), groupThousands(product.Price)),
			lineLength-runeLen(product.Name),
		)
		lines = append(lines, padRight(product.Name, lineLength-runeLen(quantityPrice))+quantityPrice)
		lines = append(lines, padLeft(groupThousands(product.Total), lineLength))
	}

	lines = append(lines, strings.Repeat("=", lineLength))

	total := receipt.Total.StringFixed(2)
	lines = append(lines, "СУМА"+padLeft(total, lineLength-runeLen(total)+1))

	amount := receipt.PaymentAmount.StringFixed(2)
	lines = append(lines, capitalize(string(receipt.PaymentType))+padLeft(amount, lineLength-runeLen(amount)+1))

	rest := receipt.Rest.StringFixed(2)
	lines = append(lines, "Решта"+padLeft(rest, lineLength-runeLen(rest)-1))

	lines = append(lines, strings.Repeat("=", lineLength))
	lines = append(lines, center(receipt.CreatedAt.In(kyivLocation).Format(receiptTimeLayout), lineLength))
	lines = append(lines, center("Дякуємо за покупку!", lineLength))

	return strings.Join(lines, "\n")
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}

func padLeft(s string, width int) string {
	if pad := width - runeLen(s); pad > 0 {
		return strings.Repeat(" ", pad) + s
	}
	return s
}

func padRight(s string, width int) string {
	if pad := width - runeLen(s); pad > 0 {
		return s + strings.Repeat(" ", pad)
	}
	return s
}

// center pads s to width with the odd space on the right.
func center(s string, width int) string {
	pad := width - runeLen(s)
	if pad <= 0 {
		return s
	}
	left := pad / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", pad-left)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}

// groupThousands formats a money value with two decimals and comma thousands
// separators, e.g. 1234.5 -> "1,234.50".
func groupThousands(d decimal.Decimal) string {
	s := d.StringFixed(2)

	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, fracPart, _ := strings.Cut(s, ".")

	var b strings.Builder
	for i, digit := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(digit)
	}
	return sign + b.String() + "." + fracPart
}
