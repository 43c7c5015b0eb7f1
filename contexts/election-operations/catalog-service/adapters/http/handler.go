package httpadapter

import (
	"context"
	"log/slog"

	"eduvote/contexts/election-operations/catalog-service/application/commands"
	"eduvote/contexts/election-operations/catalog-service/application/queries"
	"eduvote/contexts/election-operations/catalog-service/domain/entities"
	httptransport "eduvote/contexts/election-operations/catalog-service/transport/http"
)

type Handler struct {
	Admin   commands.AdminUseCase
	Catalog queries.CatalogUseCase
	Logger  *slog.Logger
}

func (h Handler) CreateElectionHandler(ctx context.Context, req httptransport.CreateElectionRequest) (httptransport.ElectionResponse, error) {
	election, err := h.Admin.CreateElection(ctx, commands.CreateElectionCommand{
		Title:       req.Title,
		Description: req.Description,
		Type:        entities.ElectionType(req.Type),
		StartAt:     req.StartAt,
		EndAt:       req.EndAt,
	})
	if err != nil {
		return httptransport.ElectionResponse{}, err
	}
	return mapElection(election, entities.ElectionStatusUpcoming), nil
}

func (h Handler) UpdateElectionHandler(ctx context.Context, electionID string, req httptransport.UpdateElectionRequest) (httptransport.ElectionResponse, error) {
	election, err := h.Admin.UpdateElection(ctx, commands.UpdateElectionCommand{
		ElectionID:  electionID,
		Title:       req.Title,
		Description: req.Description,
		StartAt:     req.StartAt,
		EndAt:       req.EndAt,
		IsActive:    req.IsActive,
	})
	if err != nil {
		return httptransport.ElectionResponse{}, err
	}
	view, err := h.Catalog.GetElection(ctx, election.ElectionID)
	if err != nil {
		return httptransport.ElectionResponse{}, err
	}
	return mapElection(view.Election, view.Status), nil
}

func (h Handler) DeleteElectionHandler(ctx context.Context, electionID string) error {
	return h.Admin.DeleteElection(ctx, electionID)
}

func (h Handler) ListVoterElectionsHandler(ctx context.Context) (httptransport.ElectionListResponse, error) {
	views, err := h.Catalog.ListVoterElections(ctx)
	if err != nil {
		return httptransport.ElectionListResponse{}, err
	}
	return mapElectionList(views), nil
}

func (h Handler) ListAdminElectionsHandler(ctx context.Context) (httptransport.ElectionListResponse, error) {
	views, err := h.Catalog.ListAllElections(ctx)
	if err != nil {
		return httptransport.ElectionListResponse{}, err
	}
	return mapElectionList(views), nil
}

func (h Handler) GetElectionHandler(ctx context.Context, electionID string) (httptransport.ElectionResponse, error) {
	view, err := h.Catalog.GetElection(ctx, electionID)
	if err != nil {
		return httptransport.ElectionResponse{}, err
	}
	return mapElection(view.Election, view.Status), nil
}

func (h Handler) BallotStructureHandler(ctx context.Context, electionID string) (httptransport.BallotStructureResponse, error) {
	structure, err := h.Catalog.BallotStructure(ctx, electionID)
	if err != nil {
		return httptransport.BallotStructureResponse{}, err
	}
	resp := httptransport.BallotStructureResponse{
		ElectionID: structure.ElectionID,
		Type:       string(structure.Type),
	}
	for _, ballot := range structure.Positions {
		entry := httptransport.BallotPositionEntry{
			Position:   mapPosition(ballot.Position),
			Candidates: make([]httptransport.CandidateResponse, 0, len(ballot.Candidates)),
		}
		for _, candidate := range ballot.Candidates {
			entry.Candidates = append(entry.Candidates, mapCandidate(candidate))
		}
		resp.Positions = append(resp.Positions, entry)
	}
	for _, option := range structure.Options {
		resp.Options = append(resp.Options, mapOption(option))
	}
	return resp, nil
}

func (h Handler) AddPositionHandler(ctx context.Context, electionID string, req httptransport.AddPositionRequest) (httptransport.PositionResponse, error) {
	position, err := h.Admin.AddPosition(ctx, commands.AddPositionCommand{
		ElectionID:  electionID,
		Title:       req.Title,
		Description: req.Description,
		MaxVotes:    req.MaxVotes,
	})
	if err != nil {
		return httptransport.PositionResponse{}, err
	}
	return mapPosition(position), nil
}

func (h Handler) DeletePositionHandler(ctx context.Context, positionID string) error {
	return h.Admin.DeletePosition(ctx, positionID)
}

func (h Handler) AddCandidateHandler(ctx context.Context, positionID string, req httptransport.AddCandidateRequest) (httptransport.CandidateResponse, error) {
	candidate, err := h.Admin.AddCandidate(ctx, commands.AddCandidateCommand{
		PositionID: positionID,
		Name:       req.Name,
		Platform:   req.Platform,
	})
	if err != nil {
		return httptransport.CandidateResponse{}, err
	}
	return mapCandidate(candidate), nil
}

func (h Handler) DeleteCandidateHandler(ctx context.Context, candidateID string) error {
	return h.Admin.DeleteCandidate(ctx, candidateID)
}

func (h Handler) AddOptionHandler(ctx context.Context, electionID string, req httptransport.AddOptionRequest) (httptransport.OptionResponse, error) {
	option, err := h.Admin.AddOption(ctx, commands.AddOptionCommand{
		ElectionID:  electionID,
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		return httptransport.OptionResponse{}, err
	}
	return mapOption(option), nil
}

func (h Handler) DeleteOptionHandler(ctx context.Context, optionID string) error {
	return h.Admin.DeleteOption(ctx, optionID)
}

func mapElectionList(views []queries.ElectionView) httptransport.ElectionListResponse {
	resp := httptransport.ElectionListResponse{
		Items: make([]httptransport.ElectionResponse, 0, len(views)),
	}
	for _, view := range views {
		resp.Items = append(resp.Items, mapElection(view.Election, view.Status))
	}
	return resp
}

func mapElection(election entities.Election, status entities.ElectionStatus) httptransport.ElectionResponse {
	return httptransport.ElectionResponse{
		ElectionID:  election.ElectionID,
		Title:       election.Title,
		Description: election.Description,
		Type:        string(election.Type),
		StartAt:     election.StartAt,
		EndAt:       election.EndAt,
		IsActive:    election.IsActive,
		Status:      string(status),
	}
}

func mapPosition(position entities.Position) httptransport.PositionResponse {
	return httptransport.PositionResponse{
		PositionID:  position.PositionID,
		ElectionID:  position.ElectionID,
		Title:       position.Title,
		Description: position.Description,
		MaxVotes:    position.MaxVotes,
	}
}

func mapCandidate(candidate entities.Candidate) httptransport.CandidateResponse {
	return httptransport.CandidateResponse{
		CandidateID: candidate.CandidateID,
		PositionID:  candidate.PositionID,
		Name:        candidate.Name,
		Platform:    candidate.Platform,
	}
}

func mapOption(option entities.Option) httptransport.OptionResponse {
	return httptransport.OptionResponse{
		OptionID:    option.OptionID,
		ElectionID:  option.ElectionID,
		Name:        option.Name,
		Description: option.Description,
	}
}
