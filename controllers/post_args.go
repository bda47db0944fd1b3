package controllers

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/cppla/blogposts/models"
)

// errInvalidPayload marks a body that is not a JSON object or form.
var errInvalidPayload = errors.New("invalid request payload")

var fieldMessages = map[string]string{
	"title":    "Post requires title",
	"content":  "Post requires content",
	"category": "Post requires category",
	"tags":     "Post requires tag(s)",
}

// postArgs is the create/update body after coercion. Nil means the field was absent.
type postArgs struct {
	Title    *string  `json:"title" validate:"required"`
	Content  *string  `json:"content" validate:"required"`
	Category *string  `json:"category" validate:"required"`
	Tags     []string `json:"tags" validate:"required,min=1"`
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// parsePostArgs reads title, content, category and tags from a JSON object body or, for
// form submissions, from the form and query values. Scalars are coerced to strings; tags
// accept one value or a list. Missing fields yield a *models.ValidationError.
func parsePostArgs(ctx *gin.Context, v *validator.Validate) (models.PostFields, error) {
	var args postArgs
	var err error
	if ctx.ContentType() == binding.MIMEPOSTForm || ctx.ContentType() == binding.MIMEMultipartPOSTForm {
		args, err = argsFromForm(ctx.Request)
	} else {
		args, err = argsFromJSON(ctx.Request.Body)
	}
	if err != nil {
		return models.PostFields{}, err
	}

	if err := v.Struct(args); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return models.PostFields{}, err
		}
		verr := models.NewValidationError()
		for _, fe := range fieldErrs {
			verr.Add(fe.Field(), fieldMessages[fe.Field()])
		}
		return models.PostFields{}, verr
	}

	return models.PostFields{
		Title:    *args.Title,
		Content:  *args.Content,
		Category: *args.Category,
		Tags:     args.Tags,
	}, nil
}

func argsFromJSON(body io.Reader) (postArgs, error) {
	var args postArgs
	if body == nil {
		return args, nil
	}
	raw, err := io.ReadAll(body)
	if err != nil {
		return args, errInvalidPayload
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return args, nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var obj map[string]any
	if err := dec.Decode(&obj); err != nil {
		return args, errInvalidPayload
	}

	args.Title = scalarArg(obj["title"])
	args.Content = scalarArg(obj["content"])
	args.Category = scalarArg(obj["category"])
	args.Tags = tagsArg(obj["tags"])
	return args, nil
}

func argsFromForm(req *http.Request) (postArgs, error) {
	var args postArgs
	if err := req.ParseMultipartForm(32 << 20); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return args, errInvalidPayload
	}
	first := func(key string) *string {
		if vals, ok := req.Form[key]; ok && len(vals) > 0 {
			return &vals[0]
		}
		return nil
	}
	args.Title = first("title")
	args.Content = first("content")
	args.Category = first("category")
	if vals, ok := req.Form["tags"]; ok {
		args.Tags = append([]string{}, vals...)
	}
	return args, nil
}

// scalarArg converts a decoded JSON scalar to its string form. Null, objects and
// arrays count as absent.
func scalarArg(v any) *string {
	var s string
	switch t := v.(type) {
	case string:
		s = t
	case json.Number:
		s = t.String()
	case bool:
		s = strconv.FormatBool(t)
	default:
		return nil
	}
	return &s
}

// tagsArg accepts a single scalar or a list of scalars. Null list items are skipped;
// any non-scalar item rejects the whole value.
func tagsArg(v any) []string {
	switch t := v.(type) {
	case nil:
		return nil
	case []any:
		tags := []string{}
		for _, item := range t {
			if item == nil {
				continue
			}
			s := scalarArg(item)
			if s == nil {
				return nil
			}
			tags = append(tags, *s)
		}
		return tags
	default:
		if s := scalarArg(t); s != nil {
			return []string{*s}
		}
		return nil
	}
}
