package coord

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

const (
	// scaleDigits - число хранимых знаков после запятой
	scaleDigits = 4
	scale       = 10000
)

// ErrNotFinite возвращается для NaN и бесконечностей
var ErrNotFinite = errors.New("coordinate is not a finite number")

// Decimal - координата с фиксированной точностью 4 знака,
// хранится как целое число, умноженное на 10^4
type Decimal int64

// Quantize округляет float64 до 4 знаков после запятой (half-up, от нуля).
// Округление выполняется по кратчайшей десятичной записи числа,
// поэтому результат одинаков на всех платформах.
func Quantize(f float64) (Decimal, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, ErrNotFinite
	}
	return parseDecimal(strconv.FormatFloat(f, 'f', -1, 64))
}

// Parse разбирает точную десятичную запись координаты (чтение из хранилища).
// Запись с более чем 4 знаками после запятой отклоняется без округления:
// хранилище такую точность не отдает, лишние знаки означают проблему с данными.
func Parse(s string) (Decimal, error) {
	if _, frac, ok := strings.Cut(s, "."); ok && len(frac) > scaleDigits {
		return 0, fmt.Errorf("coordinate %q has more than %d fractional digits", s, scaleDigits)
	}
	return parseDecimal(s)
}

func parseDecimal(s string) (Decimal, error) {
	neg := false
	switch {
	case strings.HasPrefix(s, "-"):
		neg = true
		s = s[1:]
	case strings.HasPrefix(s, "+"):
		s = s[1:]
	}

	if s == "" || s == "." {
		return 0, fmt.Errorf("invalid coordinate %q", s)
	}

	intPart, fracPart, _ := strings.Cut(s, ".")
	if intPart == "" {
		intPart = "0"
	}
	whole, err := strconv.ParseUint(intPart, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid coordinate %q: %w", s, err)
	}
	for i := 0; i < len(fracPart); i++ {
		if fracPart[i] < '0' || fracPart[i] > '9' {
			return 0, fmt.Errorf("invalid coordinate %q", s)
		}
	}

	frac := fracPart
	if len(frac) > scaleDigits {
		frac = frac[:scaleDigits]
	}
	for len(frac) < scaleDigits {
		frac += "0"
	}
	fracVal, _ := strconv.ParseUint(frac, 10, 64)

	if whole > (math.MaxInt64-fracVal-1)/scale {
		return 0, fmt.Errorf("coordinate %q is out of range", s)
	}
	d := int64(whole*scale + fracVal)

	// half-up: пятый знак >= 5 округляет вверх по модулю
	if len(fracPart) > scaleDigits && fracPart[scaleDigits] >= '5' {
		d++
	}

	if neg {
		d = -d
	}
	return Decimal(d), nil
}

// Float64 возвращает приближенное значение координаты как IEEE-754 double
func (d Decimal) Float64() float64 {
	return float64(d) / scale
}

// String форматирует координату ровно с 4 знаками после запятой
func (d Decimal) String() string {
	v := int64(d)
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%04d", sign, v/scale, v%scale)
}

// MarshalJSON сериализует координату как JSON-число с 4 знаками
func (d Decimal) MarshalJSON() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalJSON принимает и число, и строку с числом
func (d *Decimal) UnmarshalJSON(data []byte) error {
	data = bytes.Trim(data, `"`)
	parsed, err := parseDecimal(string(data))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
