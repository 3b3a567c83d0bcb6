package conversion

import "github.com/JaimeStill/anytomarkdown/pkg/openapi"

type spec struct {
	Convert *openapi.Operation
	Batch   *openapi.Operation
	URL     *openapi.Operation
}

func multipartFiles(description string) *openapi.RequestBody {
	return &openapi.RequestBody{
		Required: true,
		Content: map[string]*openapi.MediaType{
			"multipart/form-data": {
				Schema: &openapi.Schema{
					Type: "object",
					Properties: map[string]*openapi.Schema{
						"file": {Type: "string", Format: "binary", Description: description},
					},
				},
			},
		},
	}
}

// Spec holds the OpenAPI operations of the conversion endpoints.
var Spec = spec{
	Convert: &openapi.Operation{
		Summary:     "Convert document",
		Description: "Convert a single uploaded file to Markdown",
		RequestBody: multipartFiles("Document to convert"),
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Conversion result", "ConvertResponse"),
			400: openapi.ResponseError("Invalid request"),
			413: openapi.ResponseError("File or document too large"),
			415: openapi.ResponseError("Unsupported file type"),
			500: openapi.ResponseError("Conversion failed"),
		},
	},
	Batch: &openapi.Operation{
		Summary:     "Convert documents",
		Description: "Convert several uploaded files to Markdown in one call. Files failing admission are reported in errors.",
		RequestBody: multipartFiles("Documents to convert; repeat the field for each file"),
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Conversion results", "BatchResponse"),
			400: openapi.ResponseError("Invalid request, batch limit exceeded, or no valid files"),
			413: openapi.ResponseError("Request or document too large"),
			500: openapi.ResponseError("Conversion failed"),
		},
	},
	URL: &openapi.Operation{
		Summary:     "Convert URL",
		Description: "Fetch a remote document and convert it to Markdown",
		RequestBody: openapi.RequestBodyJSON("URLRequest", true),
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Conversion results", "BatchResponse"),
			400: openapi.ResponseError("Invalid JSON, invalid URL, or fetch failure"),
			413: openapi.ResponseError("Fetched document too large"),
			415: openapi.ResponseError("Unsupported content type"),
			500: openapi.ResponseError("Conversion failed"),
		},
	},
}

// Schemas returns the component schemas referenced by the conversion operations.
func Schemas() map[string]*openapi.Schema {
	result := &openapi.Schema{
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"name":     {Type: "string"},
			"mimeType": {Type: "string"},
			"format":   {Type: "string"},
			"tokens":   {Type: "integer"},
			"data":     {Type: "string", Description: "Markdown content"},
		},
	}
	return map[string]*openapi.Schema{
		"Result": result,
		"ConvertResponse": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"success": {Type: "boolean"},
				"result":  openapi.SchemaRef("Result"),
			},
		},
		"BatchResponse": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"success": {Type: "boolean"},
				"results": {Type: "array", Items: openapi.SchemaRef("Result")},
				"errors":  {Type: "array", Items: &openapi.Schema{Type: "string"}},
			},
		},
		"URLRequest": {
			Type:       "object",
			Properties: map[string]*openapi.Schema{"url": {Type: "string", Format: "uri"}},
			Required:   []string{"url"},
		},
	}
}
