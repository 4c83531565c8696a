// Package docs provides generated OpenAPI documentation.
//
// docview API
//
//	@title			docview API
//	@version		1.0
//	@description	Document extraction viewer: upload a document, inspect its chunks over the page and chat about it.
//	@termsOfService	http://swagger.io/terms/
//
//	@contact.name	API Support
//	@contact.url	https://github.com/jackzampolin/docview
//
//	@license.name	MIT
//	@license.url	https://opensource.org/licenses/MIT
//
//	@host		localhost:8080
//	@BasePath	/
//
//	@schemes	http https
package docs

//go:generate swag init -g ../cmd/docview/serve.go -o . --outputTypes go --parseDependency --parseInternal
