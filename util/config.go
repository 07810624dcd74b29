package util

import (
	"encoding/json"
	"fmt"
	"os"
	"reflect"
	"strings"
)

// LoadConfig fills the exported fields of the struct c points to from the
// environment variables PREFIX_FIELD (upper-cased field name). Strings are
// taken verbatim, everything else is decoded as json. A missing variable is
// an error unless the field already holds a default or is tagged
// `config:"optional"`.
func LoadConfig(prefix string, c any) error {
	rt, rc := reflect.TypeOf(c).Elem(), reflect.ValueOf(c).Elem()
	for i := 0; i < rt.NumField(); i++ {
		rft := rt.Field(i)
		if !rft.IsExported() {
			continue
		}
		key := strings.ToUpper(rft.Name)
		if prefix != "" {
			key = strings.ToUpper(prefix) + "_" + key
		}
		s, ok := os.LookupEnv(key)
		if !ok && (!rc.Field(i).IsZero() || rft.Tag.Get("config") == "optional") {
			continue
		} else if !ok {
			return fmt.Errorf("failed to lookup field %q in env (%s)", rft.Name, key)
		}
		if rft.Type.Kind() == reflect.String {
			rc.Field(i).SetString(s)
		} else if err := json.Unmarshal([]byte(s), rc.Field(i).Addr().Interface()); err != nil {
			return fmt.Errorf("failed to unmarshal %q(%s) from %q: %w", key, rft.Type, s, err)
		}
	}
	return nil
}
