package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
)

// pathParam binds the chi URL parameter name as a simple-style path
// parameter, the way generated oapi-codegen servers do.
func pathParam(r *http.Request, name string) (string, error) {
	var v string
	err := runtime.BindStyledParameterWithOptions("simple", name, chi.URLParam(r, name), &v,
		runtime.BindStyledParameterOptions{
			ParamLocation: runtime.ParamLocationPath,
			Explode:       false,
			Required:      true,
		})
	return v, err
}

// pathParams binds each named path parameter, writing a 400 and returning
// false on the first that is missing.
func pathParams(w http.ResponseWriter, r *http.Request, names ...string) ([]string, bool) {
	out := make([]string, len(names))
	for i, name := range names {
		v, err := pathParam(r, name)
		if err != nil || v == "" {
			writeError(w, http.StatusBadRequest, "Invalid "+name)
			return nil, false
		}
		out[i] = v
	}
	return out, true
}
