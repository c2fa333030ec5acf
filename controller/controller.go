package controller

import (
	"bealive-agent-backend/service/activity"
	"bealive-agent-backend/service/chatbot"
	"bealive-agent-backend/service/knowledge-base/etl"
)

// Services are the collaborators the handlers call into.
type Services struct {
	Bot        *chatbot.Bot
	Activities *activity.Service
	Pipeline   *etl.Pipeline

	// QueueIngest hands /api/kb/ingest requests to the knowledge base consumers instead
	// of ingesting inline.
	QueueIngest bool
}

var services Services

// Setup installs the services used by the handlers. It must run before the router serves.
func Setup(s Services) {
	services = s
}
