package client

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/url"
	"sort"
	"strings"

	apperrors "github.com/najeeb67/my-money-mat/internal/errors"
)

// resources maps an entity name to its collection path segment.
var resources = map[string]string{
	"expense":      "expenses",
	"income":       "incomes",
	"loan":         "loans",
	"budget":       "budgets",
	"savings_goal": "savings-goals",
	"account":      "accounts",
}

// verbs maps an operation prefix to its HTTP method.
var verbs = map[string]string{
	"create": http.MethodPost,
	"update": http.MethodPut,
	"delete": http.MethodDelete,
}

// OperationRequest is the HTTP request a named operation turns into.
type OperationRequest struct {
	Method string
	Path   string
	Body   map[string]json.RawMessage
}

// IsKnownOperation reports whether name maps to an endpoint.
func IsKnownOperation(name string) bool {
	_, _, ok := splitOperation(name)
	return ok
}

// KnownOperations lists every supported operation name, sorted.
func KnownOperations() []string {
	names := make([]string, 0, len(resources)*len(verbs))
	for verb := range verbs {
		for entity := range resources {
			names = append(names, verb+"_"+entity)
		}
	}
	sort.Strings(names)
	return names
}

func splitOperation(name string) (method, collection string, ok bool) {
	verb, entity, found := strings.Cut(name, "_")
	if !found {
		return "", "", false
	}
	method, ok = verbs[verb]
	if !ok {
		return "", "", false
	}
	collection, ok = resources[entity]
	return method, collection, ok
}

// BuildOperation resolves a named operation and its JSON arguments into a
// request. Update and delete take the entity id from arguments.id; the
// remaining arguments form the body.
func BuildOperation(name string, arguments json.RawMessage) (OperationRequest, error) {
	method, collection, ok := splitOperation(name)
	if !ok {
		return OperationRequest{}, apperrors.WithMessage(apperrors.ErrUnknownOperation, "unknown operation: "+name)
	}

	args := map[string]json.RawMessage{}
	if trimmed := bytes.TrimSpace(arguments); len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null")) {
		if err := json.Unmarshal(trimmed, &args); err != nil {
			return OperationRequest{}, apperrors.WithMessage(apperrors.ErrInvalidInput, "arguments must be a JSON object")
		}
	}

	req := OperationRequest{Method: method, Path: "/api/v1/" + collection}
	if method != http.MethodPost {
		id, err := entityID(args["id"])
		if err != nil {
			return OperationRequest{}, err
		}
		delete(args, "id")
		req.Path += "/" + url.PathEscape(id)
	}
	if method != http.MethodDelete {
		req.Body = args
	}
	return req, nil
}

// entityID accepts a JSON string or number.
func entityID(raw json.RawMessage) (string, error) {
	if len(raw) == 0 {
		return "", apperrors.WithMessage(apperrors.ErrInvalidInput, "arguments.id is required")
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil && s != "" {
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil && n != "" {
		return n.String(), nil
	}
	return "", apperrors.WithMessage(apperrors.ErrInvalidInput, "arguments.id must be a string or number")
}
