// Copyright 2025 achetronic
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package jira provides a Jira REST client and an ADK toolset exposing the
// common issue-tracking operations to an agent: searching, reading and
// creating issues, commenting, assigning, and workflow transitions.
//
// The client talks to /rest/api/latest with basic auth (username + API
// token). Results are reshaped into small flat structs that serialize well
// into tool responses, always including a browse link so the agent can
// surface clickable references. Metadata listings (projects, issue types,
// priorities) can be served from an optional Cache to spare round-trips.
package jira

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const apiVersion = "latest"

const tracerName = "github.com/achetronic/adk-toolbox-go/tools/jira"

// APIError is a non-2xx answer from the Jira REST API.
type APIError struct {
	StatusCode int
	Operation  string
	Body       string
}

func (e *APIError) Error() string {
	switch e.StatusCode {
	case http.StatusUnauthorized:
		return "authentication failed: check your username and API token"
	case http.StatusForbidden:
		return "you don't have permission to perform this operation"
	case http.StatusNotFound:
		return fmt.Sprintf("resource not found while attempting to %s", e.Operation)
	default:
		return fmt.Sprintf("jira API error (%d): %s", e.StatusCode, e.Body)
	}
}

// Config holds the connection settings for a Jira Cloud or Server instance.
type Config struct {
	// BaseURL is the instance root, e.g. "https://yourcompany.atlassian.net".
	BaseURL string

	// Username is the account email (Cloud) or username (Server).
	Username string

	// APIToken is the API token or password paired with Username.
	APIToken string

	// HTTPClient overrides the default client (30s timeout).
	HTTPClient *http.Client

	// Cache, when set, serves metadata listings (projects, issue types,
	// priorities) without hitting the API. Issue data is never cached.
	Cache Cache

	// CacheTTL is the expiration for cached listings (default: 5 minutes).
	CacheTTL time.Duration
}

// Client is a minimal Jira REST API client.
type Client struct {
	baseURL    string
	username   string
	apiToken   string
	httpClient *http.Client
	cache      Cache
	cacheTTL   time.Duration
	tracer     trace.Tracer
}

// NewClient validates the configuration and returns a ready client. It does
// not probe the instance; the first operation surfaces connectivity errors.
func NewClient(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("BaseURL is required")
	}
	if cfg.Username == "" {
		return nil, fmt.Errorf("Username is required")
	}
	if cfg.APIToken == "" {
		return nil, fmt.Errorf("APIToken is required")
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	cacheTTL := cfg.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = 5 * time.Minute
	}

	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		username:   cfg.Username,
		apiToken:   cfg.APIToken,
		httpClient: httpClient,
		cache:      cfg.Cache,
		cacheTTL:   cacheTTL,
		tracer:     otel.Tracer(tracerName),
	}, nil
}

// --- HTTP plumbing ---

func (c *Client) do(ctx context.Context, method, endpoint, operation string, params url.Values, body any, out any) error {
	u := fmt.Sprintf("%s/rest/api/%s/%s", c.baseURL, apiVersion, endpoint)
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.SetBasicAuth(c.username, c.apiToken)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request to jira failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{
			StatusCode: resp.StatusCode,
			Operation:  operation,
			Body:       strings.TrimSpace(string(raw)),
		}
	}

	if out != nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

func (c *Client) get(ctx context.Context, endpoint, operation string, params url.Values, out any) error {
	return c.do(ctx, http.MethodGet, endpoint, operation, params, nil, out)
}

func (c *Client) post(ctx context.Context, endpoint, operation string, body, out any) error {
	return c.do(ctx, http.MethodPost, endpoint, operation, nil, body, out)
}

func (c *Client) put(ctx context.Context, endpoint, operation string, body, out any) error {
	return c.do(ctx, http.MethodPut, endpoint, operation, nil, body, out)
}

// startSpan opens a tracing span for one operation and returns the derived
// context plus a closer that records the outcome.
func (c *Client) startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, func(error)) {
	ctx, span := c.tracer.Start(ctx, name, trace.WithAttributes(attrs...))
	return ctx, func(err error) {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}
}

func (c *Client) browseLink(issueKey string) string {
	return fmt.Sprintf("%s/browse/%s", c.baseURL, issueKey)
}

// --- Issues ---

// Issue is the detailed view of a single issue.
type Issue struct {
	Key         string `json:"key"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status"`
	Type        string `json:"type"`
	Project     string `json:"project"`
	Priority    string `json:"priority"`
	Created     string `json:"created"`
	Updated     string `json:"updated"`
	Reporter    string `json:"reporter"`
	Assignee    string `json:"assignee"`
	Link        string `json:"link"`
}

type issueWire struct {
	Key    string `json:"key"`
	Fields struct {
		Summary string `json:"summary"`
		Status  struct {
			Name string `json:"name"`
		} `json:"status"`
		IssueType struct {
			Name string `json:"name"`
		} `json:"issuetype"`
		Project struct {
			Name string `json:"name"`
		} `json:"project"`
		Priority *struct {
			Name string `json:"name"`
		} `json:"priority"`
		Reporter *struct {
			DisplayName string `json:"displayName"`
		} `json:"reporter"`
		Assignee *struct {
			DisplayName string `json:"displayName"`
		} `json:"assignee"`
		Created string `json:"created"`
		Updated string `json:"updated"`
	} `json:"fields"`
	RenderedFields struct {
		Description string `json:"description"`
	} `json:"renderedFields"`
}

// GetIssue fetches one issue by key (e.g. "PROJ-123").
func (c *Client) GetIssue(ctx context.Context, issueKey string) (*Issue, error) {
	ctx, done := c.startSpan(ctx, "jira.GetIssue", attribute.String("jira.issue", issueKey))
	var opErr error
	defer func() { done(opErr) }()

	params := url.Values{}
	params.Set("fields", "summary,description,status,assignee,reporter,created,updated,priority,issuetype,project")
	params.Set("expand", "renderedFields,names")

	var wire issueWire
	if opErr = c.get(ctx, "issue/"+issueKey, "get issue "+issueKey, params, &wire); opErr != nil {
		return nil, opErr
	}

	issue := &Issue{
		Key:         issueKey,
		Title:       wire.Fields.Summary,
		Description: wire.RenderedFields.Description,
		Status:      wire.Fields.Status.Name,
		Type:        wire.Fields.IssueType.Name,
		Project:     wire.Fields.Project.Name,
		Priority:    "Not set",
		Created:     orUnknown(wire.Fields.Created),
		Updated:     orUnknown(wire.Fields.Updated),
		Reporter:    c.username,
		Assignee:    "Unassigned",
		Link:        c.browseLink(issueKey),
	}
	if wire.Fields.Priority != nil {
		issue.Priority = wire.Fields.Priority.Name
	}
	if wire.Fields.Reporter != nil {
		issue.Reporter = wire.Fields.Reporter.DisplayName
	}
	if wire.Fields.Assignee != nil {
		issue.Assignee = wire.Fields.Assignee.DisplayName
	}
	if issue.Description == "" {
		issue.Description = "No description provided"
	}

	return issue, nil
}

// SearchSummary is one row of a search result.
type SearchSummary struct {
	Key      string `json:"key"`
	Summary  string `json:"summary"`
	Status   string `json:"status"`
	Type     string `json:"type"`
	Priority string `json:"priority"`
	Updated  string `json:"updated"`
	Link     string `json:"link"`
}

// SearchResults is the outcome of a search.
type SearchResults struct {
	Issues    []SearchSummary `json:"issues"`
	Total     int             `json:"total"`
	Displayed int             `json:"displayed"`
}

// jqlMarkers identify queries that are already JQL rather than free text.
var jqlMarkers = []string{"=", "~", ">", "<", " AND ", " OR ", " ORDER BY "}

// buildJQL passes JQL queries through and converts free text to an OR of
// per-term text matches.
func buildJQL(query string) string {
	for _, marker := range jqlMarkers {
		if strings.Contains(query, marker) {
			return query
		}
	}

	terms := strings.Fields(query)
	if len(terms) == 0 {
		return fmt.Sprintf("text ~ %q", query)
	}
	clauses := make([]string, len(terms))
	for i, term := range terms {
		clauses[i] = fmt.Sprintf("text ~ %q", term)
	}
	return strings.Join(clauses, " OR ")
}

// SearchIssues runs a JQL or free-text search. maxResults <= 0 means 10.
func (c *Client) SearchIssues(ctx context.Context, query string, maxResults int) (*SearchResults, error) {
	ctx, done := c.startSpan(ctx, "jira.SearchIssues", attribute.String("jira.query", query))
	var opErr error
	defer func() { done(opErr) }()

	if maxResults <= 0 {
		maxResults = 10
	}

	params := url.Values{}
	params.Set("jql", buildJQL(query))
	params.Set("maxResults", fmt.Sprintf("%d", maxResults))
	params.Set("fields", "summary,status,issuetype,priority,updated")

	var wire struct {
		Total  int `json:"total"`
		Issues []struct {
			Key    string `json:"key"`
			Fields struct {
				Summary string `json:"summary"`
				Status  struct {
					Name string `json:"name"`
				} `json:"status"`
				IssueType struct {
					Name string `json:"name"`
				} `json:"issuetype"`
				Priority *struct {
					Name string `json:"name"`
				} `json:"priority"`
				Updated string `json:"updated"`
			} `json:"fields"`
		} `json:"issues"`
	}
	if opErr = c.get(ctx, "search", "search issues", params, &wire); opErr != nil {
		return nil, opErr
	}

	results := &SearchResults{Total: wire.Total}
	for _, item := range wire.Issues {
		row := SearchSummary{
			Key:      item.Key,
			Summary:  item.Fields.Summary,
			Status:   item.Fields.Status.Name,
			Type:     item.Fields.IssueType.Name,
			Priority: "Not set",
			Updated:  orUnknown(item.Fields.Updated),
			Link:     c.browseLink(item.Key),
		}
		if item.Fields.Priority != nil {
			row.Priority = item.Fields.Priority.Name
		}
		results.Issues = append(results.Issues, row)
	}
	results.Displayed = len(results.Issues)

	return results, nil
}

// CreatedIssue identifies a freshly created issue.
type CreatedIssue struct {
	Key  string `json:"key"`
	ID   string `json:"id"`
	Link string `json:"link"`
}

// CreateIssue creates an issue. An empty issueType means "Task"; priority
// is optional.
func (c *Client) CreateIssue(ctx context.Context, projectKey, summary, description, issueType, priority string) (*CreatedIssue, error) {
	ctx, done := c.startSpan(ctx, "jira.CreateIssue", attribute.String("jira.project", projectKey))
	var opErr error
	defer func() { done(opErr) }()

	if issueType == "" {
		issueType = "Task"
	}

	fields := map[string]any{
		"project":     map[string]any{"key": projectKey},
		"summary":     summary,
		"description": description,
		"issuetype":   map[string]any{"name": issueType},
	}
	if priority != "" {
		fields["priority"] = map[string]any{"name": priority}
	}

	var wire struct {
		Key string `json:"key"`
		ID  string `json:"id"`
	}
	if opErr = c.post(ctx, "issue", "create issue", map[string]any{"fields": fields}, &wire); opErr != nil {
		return nil, opErr
	}

	return &CreatedIssue{
		Key:  wire.Key,
		ID:   wire.ID,
		Link: c.browseLink(wire.Key),
	}, nil
}

// --- Comments ---

// AddedComment identifies a freshly posted comment.
type AddedComment struct {
	ID        string `json:"id"`
	Created   string `json:"created"`
	IssueLink string `json:"issue_link"`
}

// AddComment posts a comment. The text is wrapped in a single-paragraph
// Atlassian document, which is what the Cloud API expects.
func (c *Client) AddComment(ctx context.Context, issueKey, comment string) (*AddedComment, error) {
	ctx, done := c.startSpan(ctx, "jira.AddComment", attribute.String("jira.issue", issueKey))
	var opErr error
	defer func() { done(opErr) }()

	body := map[string]any{
		"body": map[string]any{
			"type":    "doc",
			"version": 1,
			"content": []any{
				map[string]any{
					"type":    "paragraph",
					"content": []any{map[string]any{"type": "text", "text": comment}},
				},
			},
		},
	}

	var wire struct {
		ID      string `json:"id"`
		Created string `json:"created"`
	}
	if opErr = c.post(ctx, "issue/"+issueKey+"/comment", "comment on "+issueKey, body, &wire); opErr != nil {
		return nil, opErr
	}

	return &AddedComment{
		ID:        wire.ID,
		Created:   wire.Created,
		IssueLink: c.browseLink(issueKey),
	}, nil
}

// Comment is one comment on an issue, flattened to plain text.
type Comment struct {
	ID      string `json:"id"`
	Author  string `json:"author"`
	Created string `json:"created"`
	Updated string `json:"updated"`
	Text    string `json:"text"`
}

// GetComments lists the comments of an issue, extracting plain text from
// the Atlassian document structure.
func (c *Client) GetComments(ctx context.Context, issueKey string) ([]Comment, error) {
	ctx, done := c.startSpan(ctx, "jira.GetComments", attribute.String("jira.issue", issueKey))
	var opErr error
	defer func() { done(opErr) }()

	var wire struct {
		Comments []struct {
			ID     string `json:"id"`
			Author *struct {
				DisplayName string `json:"displayName"`
			} `json:"author"`
			Created string `json:"created"`
			Updated string `json:"updated"`
			Body    struct {
				Content []struct {
					Content []struct {
						Text string `json:"text"`
					} `json:"content"`
				} `json:"content"`
			} `json:"body"`
		} `json:"comments"`
	}
	if opErr = c.get(ctx, "issue/"+issueKey+"/comment", "get comments of "+issueKey, nil, &wire); opErr != nil {
		return nil, opErr
	}

	comments := make([]Comment, 0, len(wire.Comments))
	for _, raw := range wire.Comments {
		var text strings.Builder
		for _, block := range raw.Body.Content {
			for _, inline := range block.Content {
				text.WriteString(inline.Text)
			}
		}

		comment := Comment{
			ID:      raw.ID,
			Author:  "Unknown",
			Created: orUnknown(raw.Created),
			Updated: orUnknown(raw.Updated),
			Text:    text.String(),
		}
		if raw.Author != nil {
			comment.Author = raw.Author.DisplayName
		}
		comments = append(comments, comment)
	}

	return comments, nil
}

// --- Assignment and workflow ---

// Assignment is the outcome of an assignee change.
type Assignment struct {
	IssueKey string `json:"issue_key"`
	Assignee string `json:"assignee"`
	Link     string `json:"link"`
}

// AssignIssue sets the assignee of an issue. An empty assignee, "none" or
// "unassigned" clears the field.
func (c *Client) AssignIssue(ctx context.Context, issueKey, assignee string) (*Assignment, error) {
	ctx, done := c.startSpan(ctx, "jira.AssignIssue", attribute.String("jira.issue", issueKey))
	var opErr error
	defer func() { done(opErr) }()

	var body map[string]any
	display := assignee
	switch strings.ToLower(assignee) {
	case "", "none", "unassigned":
		body = map[string]any{"assignee": nil}
		display = "Unassigned"
	default:
		body = map[string]any{"assignee": map[string]any{"name": assignee}}
	}

	if opErr = c.put(ctx, "issue/"+issueKey+"/assignee", "assign "+issueKey, body, nil); opErr != nil {
		return nil, opErr
	}

	return &Assignment{
		IssueKey: issueKey,
		Assignee: display,
		Link:     c.browseLink(issueKey),
	}, nil
}

// Transition is one available workflow transition of an issue.
type Transition struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	ToStatus string `json:"to_status"`
}

type transitionsWire struct {
	Transitions []struct {
		ID   string `json:"id"`
		Name string `json:"name"`
		To   struct {
			Name string `json:"name"`
		} `json:"to"`
	} `json:"transitions"`
}

// AvailableTransitions lists the workflow transitions currently allowed for
// an issue.
func (c *Client) AvailableTransitions(ctx context.Context, issueKey string) ([]Transition, error) {
	ctx, done := c.startSpan(ctx, "jira.AvailableTransitions", attribute.String("jira.issue", issueKey))
	var opErr error
	defer func() { done(opErr) }()

	var wire transitionsWire
	if opErr = c.get(ctx, "issue/"+issueKey+"/transitions", "get transitions of "+issueKey, nil, &wire); opErr != nil {
		return nil, opErr
	}

	transitions := make([]Transition, 0, len(wire.Transitions))
	for _, t := range wire.Transitions {
		transitions = append(transitions, Transition{ID: t.ID, Name: t.Name, ToStatus: t.To.Name})
	}
	return transitions, nil
}

// StatusChange is the outcome of a workflow transition.
type StatusChange struct {
	IssueKey  string `json:"issue_key"`
	NewStatus string `json:"new_status"`
	Link      string `json:"link"`
}

// TransitionIssue moves an issue through its workflow, matching the target
// transition by ID first, then by case-insensitive name. When no transition
// matches, the error lists the ones currently available.
func (c *Client) TransitionIssue(ctx context.Context, issueKey, transitionID, transitionName string) (*StatusChange, error) {
	ctx, done := c.startSpan(ctx, "jira.TransitionIssue",
		attribute.String("jira.issue", issueKey),
		attribute.String("jira.transition", transitionID+transitionName),
	)
	var opErr error
	defer func() { done(opErr) }()

	if transitionID == "" && transitionName == "" {
		opErr = errors.New("either a transition ID or a transition name is required")
		return nil, opErr
	}

	available, err := c.AvailableTransitions(ctx, issueKey)
	if err != nil {
		opErr = err
		return nil, opErr
	}

	target := ""
	for _, t := range available {
		if transitionID != "" && t.ID == transitionID {
			target = t.ID
			break
		}
		if transitionID == "" && strings.EqualFold(t.Name, transitionName) {
			target = t.ID
			break
		}
	}
	if target == "" {
		names := make([]string, len(available))
		for i, t := range available {
			names[i] = fmt.Sprintf("%s (ID: %s)", t.Name, t.ID)
		}
		opErr = fmt.Errorf("transition not found; available transitions: %s", strings.Join(names, ", "))
		return nil, opErr
	}

	body := map[string]any{"transition": map[string]any{"id": target}}
	if opErr = c.post(ctx, "issue/"+issueKey+"/transitions", "transition "+issueKey, body, nil); opErr != nil {
		return nil, opErr
	}

	// Re-read the issue to report the status it actually landed on.
	var wire issueWire
	params := url.Values{}
	params.Set("fields", "status")
	if opErr = c.get(ctx, "issue/"+issueKey, "confirm status of "+issueKey, params, &wire); opErr != nil {
		return nil, opErr
	}

	return &StatusChange{
		IssueKey:  issueKey,
		NewStatus: wire.Fields.Status.Name,
		Link:      c.browseLink(issueKey),
	}, nil
}

// --- Metadata listings (cache-backed) ---

// Project is one Jira project.
type Project struct {
	Key  string `json:"key"`
	Name string `json:"name"`
	ID   string `json:"id"`
}

// ListProjects returns the projects visible to the authenticated user.
func (c *Client) ListProjects(ctx context.Context) ([]Project, error) {
	ctx, done := c.startSpan(ctx, "jira.ListProjects")
	var opErr error
	defer func() { done(opErr) }()

	var projects []Project
	opErr = c.cachedGet(ctx, "projects", &projects, func(out any) error {
		var wire []struct {
			Key  string `json:"key"`
			Name string `json:"name"`
			ID   string `json:"id"`
		}
		if err := c.get(ctx, "project", "list projects", nil, &wire); err != nil {
			return err
		}
		list := out.(*[]Project)
		for _, p := range wire {
			*list = append(*list, Project{Key: p.Key, Name: p.Name, ID: p.ID})
		}
		return nil
	})
	if opErr != nil {
		return nil, opErr
	}
	return projects, nil
}

// IssueType is one issue type, e.g. Task or Bug.
type IssueType struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ListIssueTypes returns the available issue types, optionally restricted
// to one project.
func (c *Client) ListIssueTypes(ctx context.Context, projectKey string) ([]IssueType, error) {
	ctx, done := c.startSpan(ctx, "jira.ListIssueTypes", attribute.String("jira.project", projectKey))
	var opErr error
	defer func() { done(opErr) }()

	var types []IssueType
	opErr = c.cachedGet(ctx, "issuetypes:"+projectKey, &types, func(out any) error {
		list := out.(*[]IssueType)

		if projectKey != "" {
			var wire struct {
				IssueTypes []IssueType `json:"issueTypes"`
			}
			if err := c.get(ctx, "project/"+projectKey, "list issue types of "+projectKey, nil, &wire); err != nil {
				return err
			}
			*list = append(*list, wire.IssueTypes...)
			return nil
		}

		var wire []IssueType
		if err := c.get(ctx, "issuetype", "list issue types", nil, &wire); err != nil {
			return err
		}
		*list = append(*list, wire...)
		return nil
	})
	if opErr != nil {
		return nil, opErr
	}
	return types, nil
}

// Priority is one priority level.
type Priority struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ListPriorities returns the available priorities.
func (c *Client) ListPriorities(ctx context.Context) ([]Priority, error) {
	ctx, done := c.startSpan(ctx, "jira.ListPriorities")
	var opErr error
	defer func() { done(opErr) }()

	var priorities []Priority
	opErr = c.cachedGet(ctx, "priorities", &priorities, func(out any) error {
		var wire []Priority
		if err := c.get(ctx, "priority", "list priorities", nil, &wire); err != nil {
			return err
		}
		list := out.(*[]Priority)
		*list = append(*list, wire...)
		return nil
	})
	if opErr != nil {
		return nil, opErr
	}
	return priorities, nil
}

// cachedGet serves out from the cache when possible, otherwise invokes fill
// and stores the result. Cache failures degrade to a direct call.
func (c *Client) cachedGet(ctx context.Context, key string, out any, fill func(out any) error) error {
	if c.cache != nil {
		if raw, err := c.cache.Get(ctx, key); err == nil {
			if err := json.Unmarshal(raw, out); err == nil {
				return nil
			}
		}
	}

	if err := fill(out); err != nil {
		return err
	}

	if c.cache != nil {
		if raw, err := json.Marshal(out); err == nil {
			_ = c.cache.Set(ctx, key, raw, c.cacheTTL)
		}
	}

	return nil
}

func orUnknown(s string) string {
	if s == "" {
		return "Unknown"
	}
	return s
}
