package chatbot

import (
	"bealive-agent-backend/service/llm"
	"bealive-agent-backend/service/slots"
	"context"
)

func (h *Handlers) chitchat(ctx context.Context, req *Request, p *slots.Chitchat) (string, error) {
	system, err := render("chitchat", struct{ History string }{History: req.History})
	if err != nil {
		return "", fail(KindCompletion, MsgError, err)
	}

	query := req.Utterance
	if query == "" {
		query = slots.Value(p.Statement)
	}
	answer, err := llm.Complete(ctx, h.extractor.Model(), system, "User Query: "+query)
	if err != nil {
		return "", fail(KindCompletion, MsgError, err)
	}
	return answer, nil
}
