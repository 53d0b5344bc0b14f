package handlers

import (
	"context"
	"time"

	"github.com/naturl/naturl/internal/ideas"
)

// IdeaHandler handles the idea board operations.
type IdeaHandler struct {
	service *ideas.Service
}

// NewIdeaHandler creates the idea handler.
func NewIdeaHandler(service *ideas.Service) *IdeaHandler {
	return &IdeaHandler{service: service}
}

// IdeaModel is the JSON shape of one idea.
type IdeaModel struct {
	ID        int64     `doc:"Idea identifier"        json:"id"`
	Content   string    `doc:"Idea text"              json:"content"`
	AuthorID  string    `doc:"Submitting author id"   json:"authorId"`
	Votes     int       `doc:"Current vote total"     json:"votes"`
	CreatedAt time.Time `doc:"Submission time"        json:"createdAt"`
}

// ListIdeasResponse is the idea listing payload, newest first.
type ListIdeasResponse struct {
	Body struct {
		Ideas []IdeaModel `json:"ideas"`
	}
}

// ListIdeas returns every idea.
func (h *IdeaHandler) ListIdeas(ctx context.Context, _ *struct{}) (*ListIdeasResponse, error) {
	list, err := h.service.List(ctx)
	if err != nil {
		return nil, mapError(err)
	}

	resp := &ListIdeasResponse{}
	resp.Body.Ideas = make([]IdeaModel, 0, len(list))

	for _, idea := range list {
		resp.Body.Ideas = append(resp.Body.Ideas, toIdeaModel(idea))
	}

	return resp, nil
}

// SubmitIdeaRequest is the request body for submitting an idea.
type SubmitIdeaRequest struct {
	Body struct {
		Content  string `doc:"Idea text, 10-500 characters" json:"content"`
		AuthorID string `doc:"Author id, generated when omitted" json:"authorId,omitempty" required:"false"`
	}
}

// SubmitIdeaResponse is the payload for a stored idea.
type SubmitIdeaResponse struct {
	Body struct {
		Success bool      `json:"success"`
		Idea    IdeaModel `json:"idea"`
	}
}

// SubmitIdea stores a new idea, subject to the daily quota.
func (h *IdeaHandler) SubmitIdea(ctx context.Context, req *SubmitIdeaRequest) (*SubmitIdeaResponse, error) {
	meta := RequestMetaFromContext(ctx)

	idea, err := h.service.Submit(ctx, req.Body.Content, req.Body.AuthorID, meta.ClientKey)
	if err != nil {
		return nil, mapError(err)
	}

	resp := &SubmitIdeaResponse{}
	resp.Body.Success = true
	resp.Body.Idea = toIdeaModel(*idea)

	return resp, nil
}

// VoteRequest is the request body for voting on an idea.
type VoteRequest struct {
	Body struct {
		IdeaID   int64  `doc:"Idea to vote on"              json:"ideaId"`
		VoteType string `doc:"'upvote' or 'downvote'"       enum:"upvote,downvote" json:"voteType"`
		AuthorID string `doc:"Voting author id"             json:"authorId"`
	}
}

// VoteResponse carries the idea's new vote total.
type VoteResponse struct {
	Body struct {
		Success bool `json:"success"`
		Votes   int  `json:"votes"`
	}
}

// VoteIdea casts or switches a vote.
func (h *IdeaHandler) VoteIdea(ctx context.Context, req *VoteRequest) (*VoteResponse, error) {
	votes, err := h.service.Vote(ctx, req.Body.IdeaID, ideas.VoteType(req.Body.VoteType), req.Body.AuthorID)
	if err != nil {
		return nil, mapError(err)
	}

	resp := &VoteResponse{}
	resp.Body.Success = true
	resp.Body.Votes = votes

	return resp, nil
}

func toIdeaModel(idea ideas.Idea) IdeaModel {
	return IdeaModel{
		ID:        idea.ID,
		Content:   idea.Content,
		AuthorID:  idea.AuthorID,
		Votes:     idea.Votes,
		CreatedAt: idea.CreatedAt,
	}
}
