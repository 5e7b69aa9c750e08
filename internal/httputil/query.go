package httputil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/url"
	"reflect"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// GetURLFields inspects the query parameters of a request and reports which
// fields of the filter struct they map to.
//
// queryFields contains the names of all fields that can be passed directly
// to a gorm Where statement. Since gorm accepts them as interface{}, the
// return type is []any.
//
// setFields contains the names of all fields set in the query parameters,
// including the ones excluded from queryFields with the struct tag
// `filterField:"false"`. This keeps zero values visible to callers.
func GetURLFields(u *url.URL, filter any) ([]any, []string) {
	var queryFields []any
	var setFields []string

	query := u.Query()

	val := reflect.Indirect(reflect.ValueOf(filter))
	typ := val.Type()
	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)

		if !query.Has(field.Tag.Get("form")) {
			continue
		}

		setFields = append(setFields, field.Name)

		// Fields tagged with filterField:"false" are processed by the
		// endpoint itself, e.g. the limit on returned resources
		if field.Tag.Get("filterField") != "false" {
			queryFields = append(queryFields, field.Name)
		}
	}

	return queryFields, setFields
}

// GetBodyFields returns the names of all fields of resource that the request
// body sets, including fields set to null.
//
// The request body is restored afterwards, but GetBodyFields must still run
// before any of gin's binding methods since those consume the body.
func GetBodyFields(c *gin.Context, resource any) ([]any, error) {
	body, _ := io.ReadAll(c.Request.Body)
	c.Request.Body = io.NopCloser(bytes.NewBuffer(body))

	var raw map[string]any
	if err := json.Unmarshal(body, &raw); err != nil {
		log.Error().Str("request-id", requestid.Get(c)).Msgf("%T: %v", err, err.Error())
		return []any{}, ErrInvalidBody
	}

	var bodyFields []any

	val := reflect.Indirect(reflect.ValueOf(resource))
	typ := val.Type()
	for i := 0; i < typ.NumField(); i++ {
		if _, ok := raw[typ.Field(i).Tag.Get("json")]; ok {
			bodyFields = append(bodyFields, typ.Field(i).Name)
		}
	}

	return bodyFields, nil
}
