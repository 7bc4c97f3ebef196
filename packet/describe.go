package packet

import (
	"reflect"
	"strings"
	"unicode"

	"github.com/cooldogedev/prism/protocol"
)

// Describe returns the fields of pk that are on the wire in version v, keyed by their snake_case
// name. It is meant for logs and debugging.
func Describe(pk Packet, v protocol.Version) map[string]any {
	rec := protocol.NewRecorder(v)
	pk.Marshal(rec)

	val := reflect.ValueOf(pk)
	if val.Kind() != reflect.Pointer || val.Elem().Kind() != reflect.Struct {
		return map[string]any{}
	}
	val = val.Elem()
	typ := val.Type()

	fields := make(map[string]any, len(rec.Fields()))
	for _, recorded := range rec.Fields() {
		ptr := reflect.ValueOf(recorded)
		for i := 0; i < val.NumField(); i++ {
			field := val.Field(i)
			if !typ.Field(i).IsExported() {
				continue
			}
			addr := field.Addr()
			if addr.Type() == ptr.Type() && addr.Pointer() == ptr.Pointer() {
				fields[snakeCase(typ.Field(i).Name)] = field.Interface()
				break
			}
		}
	}
	return fields
}

// snakeCase converts a Go field name such as "PlayerUUID" to "player_uuid".
func snakeCase(name string) string {
	runes := []rune(name)
	var b strings.Builder
	for i, r := range runes {
		if unicode.IsUpper(r) && i > 0 {
			prev := runes[i-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
				b.WriteByte('_')
			}
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}
