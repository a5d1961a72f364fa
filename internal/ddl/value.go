package ddl

import (
	"fmt"
	"strconv"
	"time"

	"dbforge/internal/core"
	"dbforge/internal/dialect"
)

// Raw is SQL text emitted verbatim, e.g. Raw("CURRENT_TIMESTAMP") as a default.
type Raw string

const timestampLayout = "2006-01-02 15:04:05"

// formatValue renders a bound constraint value as SQL.
func formatValue(p *dialect.Profile, v any) (string, error) {
	switch x := v.(type) {
	case nil:
		return "NULL", nil
	case Raw:
		return string(x), nil
	case string:
		return p.QuoteLiteral(x), nil
	case bool:
		return p.BooleanLiteral(x), nil
	case int:
		return strconv.Itoa(x), nil
	case int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprint(x), nil
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32), nil
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), nil
	case time.Time:
		return p.QuoteLiteral(x.Format(timestampLayout)), nil
	case fmt.Stringer:
		return p.QuoteLiteral(x.String()), nil
	default:
		return "", &core.MisplacedCompositeError{Operation: "Default", Got: fmt.Sprintf("%T", v)}
	}
}
