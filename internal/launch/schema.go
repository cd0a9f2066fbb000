package launch

import (
	_ "embed"

	"github.com/pkg/errors"
	"github.com/xeipuuv/gojsonschema"
)

// The schema pins the enum-tagged fields (secret and environment variable
// types) to their known values, so anything that passes the check decodes
// into the closed sets the validators dispatch over.
//
//go:embed schema.json
var rawSchema []byte

var requestSchema = func() *gojsonschema.Schema {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(rawSchema))
	if err != nil {
		panic(err)
	}
	return schema
}()

// RawSchema exposes the embedded request schema, e.g. for generators.
func RawSchema() []byte {
	return rawSchema
}

// CheckPayload validates a raw request payload against the schema before
// it is decoded.
func CheckPayload(raw []byte) error {
	result, err := requestSchema.Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return errors.Wrap(err, "validating payload")
	}

	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for idx, err := range result.Errors() {
			errs[idx] = err.String()
		}

		return errors.Errorf(
			"payload does not match the request schema. errors: %v", errs,
		)
	}

	return nil
}
