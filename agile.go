package youtrack

import (
	"context"
	"iter"

	ythttp "github.com/randalmurphal/youtrack/http"
)

// AgileService handles agile boards and sprints.
type AgileService service

const agilesPath = "/api/agiles"

// ListBoards returns the agile boards visible to the token.
func (s *AgileService) ListBoards(ctx context.Context, opts *ListOptions) ([]Board, error) {
	return ythttp.Collect(s.AllBoards(ctx, opts))
}

// AllBoards iterates over the agile boards visible to the token.
func (s *AgileService) AllBoards(ctx context.Context, opts *ListOptions) iter.Seq2[Board, error] {
	return list[Board](ctx, s.client, "list boards", agilesPath, ythttp.Params{"fields": boardFields}, opts)
}

// GetBoard retrieves a board by id.
func (s *AgileService) GetBoard(ctx context.Context, boardID string) (*Board, error) {
	if err := requireID(agilesPath, "board id", boardID); err != nil {
		return nil, err
	}

	board, err := read(ctx, s.client, escape(agilesPath+"/%s", boardID), boardFields, func(b *Board) string { return b.ID })
	if err != nil {
		return nil, wrap(err, "get board %s", boardID)
	}
	return board, nil
}

// ListSprints returns the sprints of a board.
func (s *AgileService) ListSprints(ctx context.Context, boardID string, opts *ListOptions) ([]Sprint, error) {
	return ythttp.Collect(s.AllSprints(ctx, boardID, opts))
}

// AllSprints iterates over the sprints of a board.
func (s *AgileService) AllSprints(ctx context.Context, boardID string, opts *ListOptions) iter.Seq2[Sprint, error] {
	if err := requireID(agilesPath, "board id", boardID); err != nil {
		return failed[Sprint](err)
	}
	path := escape(agilesPath+"/%s/sprints", boardID)
	return list[Sprint](ctx, s.client, "list sprints of "+boardID, path, ythttp.Params{"fields": sprintFields}, opts)
}

// GetSprint retrieves one sprint of a board.
func (s *AgileService) GetSprint(ctx context.Context, boardID, sprintID string) (*Sprint, error) {
	if err := requireIDs(agilesPath, "board id", boardID, "sprint id", sprintID); err != nil {
		return nil, err
	}

	path := escape(agilesPath+"/%s/sprints/%s", boardID, sprintID)
	sprint, err := read(ctx, s.client, path, sprintFields, func(sp *Sprint) string { return sp.ID })
	if err != nil {
		return nil, wrap(err, "get sprint %s of %s", sprintID, boardID)
	}
	return sprint, nil
}

// CurrentSprint returns the board's current sprint. A board without one
// reports KindNotFound.
func (s *AgileService) CurrentSprint(ctx context.Context, boardID string) (*Sprint, error) {
	board, err := s.GetBoard(ctx, boardID)
	if err != nil {
		return nil, err
	}
	if board.CurrentSprint == nil || board.CurrentSprint.ID == "" {
		return nil, ythttp.NotFound(escape(agilesPath+"/%s", boardID), "board %s has no current sprint", boardID)
	}
	return board.CurrentSprint, nil
}

// AddIssueToSprint adds an issue to a sprint. The issue may be given by
// database id or readable id.
func (s *AgileService) AddIssueToSprint(ctx context.Context, boardID, sprintID, issueID string) error {
	path := escape(agilesPath+"/%s/sprints/%s/issues", boardID, sprintID)
	if err := requireIDs(path, "board id", boardID, "sprint id", sprintID, "issue id", issueID); err != nil {
		return err
	}

	body := map[string]string{"id": issueID}
	if isReadableID(issueID) {
		body = map[string]string{"idReadable": issueID}
	}
	return wrap(s.client.post(ctx, path, nil, body, nil), "add %s to sprint %s", issueID, sprintID)
}

// RemoveIssueFromSprint removes an issue from a sprint.
func (s *AgileService) RemoveIssueFromSprint(ctx context.Context, boardID, sprintID, issueID string) error {
	path := escape(agilesPath+"/%s/sprints/%s/issues/%s", boardID, sprintID, issueID)
	if err := requireIDs(path, "board id", boardID, "sprint id", sprintID, "issue id", issueID); err != nil {
		return err
	}
	return wrap(s.client.delete(ctx, path), "remove %s from sprint %s", issueID, sprintID)
}
