package endpoints

import (
	"github.com/jackzampolin/docview/internal/api"
)

// All returns all endpoint instances. The static catch-all comes last.
func All() []api.Endpoint {
	return []api.Endpoint{
		// Health endpoints
		&HealthEndpoint{},
		&StatusEndpoint{},
		&WaitEndpoint{},

		// Document endpoints
		&UploadDocumentEndpoint{},
		&ListDocumentsEndpoint{},
		&GetDocumentEndpoint{},
		&DeleteDocumentEndpoint{},
		&ReparseDocumentEndpoint{},
		&DocumentSourceEndpoint{},
		&DocumentMarkdownEndpoint{},
		&GetChunkEndpoint{},

		// Viewer endpoints
		&GetPageEndpoint{},
		&SelectChunkEndpoint{},
		&NavigateEndpoint{},

		// Chat endpoints
		&GetChatEndpoint{},
		&PostChatEndpoint{},
		&SuggestQuestionsEndpoint{},

		// Swagger/OpenAPI endpoints
		&SwaggerEndpoint{},
		&SwaggerUIEndpoint{},

		// Static files (catch-all, must be last)
		&StaticEndpoint{},
	}
}
