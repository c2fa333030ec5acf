package chatbot

import (
	"bealive-agent-backend/service/llm"
	"bealive-agent-backend/service/slots"
	"bealive-agent-backend/service/vector"
	"context"
	"strings"
)

func (h *Handlers) companyInformation(ctx context.Context, req *Request, p *slots.CompanyInformation) (string, error) {
	question := slots.Value(p.Question)
	if question == "" {
		question = req.Utterance
	}

	hits, err := h.company.Search(ctx, question, vector.SearchOptions{
		TopK:           h.search.TopK,
		ScoreThreshold: h.search.ScoreThreshold,
	})
	if err != nil {
		return "", fail(KindVectorIndex, MsgCompanyInfoFailed, err)
	}

	knowledge := MsgNoCompanyInfo
	if len(hits) > 0 {
		texts := make([]string, len(hits))
		for i, hit := range hits {
			texts[i] = hit.Text
		}
		knowledge = strings.Join(texts, "\n")
	}

	system, err := render("company", struct{ Context string }{Context: knowledge})
	if err != nil {
		return "", fail(KindCompletion, MsgError, err)
	}
	answer, err := llm.Complete(ctx, h.extractor.Model(), system, "User Input: "+question)
	if err != nil {
		return "", fail(KindCompletion, MsgError, err)
	}
	return answer, nil
}
