// Package jsonwrapper contains a JSON unmarshaler.
package jsonwrapper

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
)

// differences with respect to the standard package:
// - prevents setting unknown fields
// - prevents using existing elements of slices
// - prevents setting slices to nil

func process(v reflect.Value, raw interface{}, path string) error {
	switch v.Kind() {
	case reflect.Slice:
		if raw == nil {
			return fmt.Errorf("cannot set slice '%s' to nil", path)
		}

		// nil existing slice to prevent reuse of elements
		if !v.IsNil() {
			v.Set(reflect.Zero(v.Type()))
		}

	case reflect.Struct:
		rawMap, ok := raw.(map[string]interface{})
		if !ok {
			return nil
		}

		vType := v.Type()
		for i := 0; i < v.NumField(); i++ {
			jsonKey := vType.Field(i).Tag.Get("json")
			if jsonKey == "" || jsonKey == "-" {
				continue
			}
			jsonKey = strings.Split(jsonKey, ",")[0]

			rawVal, ok := rawMap[jsonKey]
			if !ok {
				continue
			}

			fieldPath := jsonKey
			if path != "" {
				fieldPath = path + "." + jsonKey
			}

			err := process(v.Field(i), rawVal, fieldPath)
			if err != nil {
				return err
			}
		}
	}

	return nil
}

// Unmarshal decodes JSON.
func Unmarshal(buf []byte, dest interface{}) error {
	var raw interface{}
	err := json.Unmarshal(buf, &raw)
	if err != nil {
		return err
	}

	err = process(reflect.ValueOf(dest).Elem(), raw, "")
	if err != nil {
		return err
	}

	d := json.NewDecoder(bytes.NewReader(buf))
	d.DisallowUnknownFields()
	return d.Decode(dest)
}
