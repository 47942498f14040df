// Package youtrack is a client for the YouTrack REST API.
//
// One Client is created from a Config and exposes a service per domain:
//
//	cfg := youtrack.DefaultConfig()
//	cfg.URL = "https://example.youtrack.cloud"
//	cfg.Token = os.Getenv("YOUTRACK_TOKEN")
//
//	client, err := youtrack.New(cfg)
//	if err != nil {
//	    return err
//	}
//
//	issues, err := client.Issues.Search(ctx, query.IssueFilter{
//	    Project: "MYD",
//	    Created: query.Range{From: "2025-07-01", To: "2025-07-31"},
//	}, nil)
//
// Services share a single transport. Idempotent reads are retried with
// exponential backoff on rate limiting, server errors and network failures;
// writes are attempted exactly once.
//
// # Pagination
//
// Every list operation comes in two forms. The plain form collects all pages
// into a slice that is never nil on success. The All form returns an
// iter.Seq2 that fetches pages lazily and starts over on every range:
//
//	for item, err := range client.WorkItems.QueryAll(ctx, filter, &youtrack.ListOptions{Limit: 200}) {
//	    if err != nil {
//	        return err
//	    }
//	    total += item.Duration.Std()
//	}
//
// # Errors
//
// Every failure is an *APIError carrying a Kind. Use errors.Is with the
// sentinels in the http package, or the predicates in this package:
//
//	if youtrack.IsNotFound(err) {
//	    // ...
//	}
package youtrack
