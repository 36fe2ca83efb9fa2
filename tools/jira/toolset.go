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

package jira

import (
	"fmt"

	"google.golang.org/adk/agent"
	"google.golang.org/adk/tool"
	"google.golang.org/adk/tool/functiontool"
)

// Toolset exposes the Jira operations as ADK tools.
type Toolset struct {
	client *Client
	tools  []tool.Tool
}

// ToolsetConfig holds configuration for the Jira toolset.
type ToolsetConfig struct {
	// Client is the Jira client the tools call through.
	Client *Client
}

// NewToolset creates a toolset wrapping every Jira operation.
func NewToolset(cfg ToolsetConfig) (*Toolset, error) {
	if cfg.Client == nil {
		return nil, fmt.Errorf("Client is required")
	}

	ts := &Toolset{client: cfg.Client}

	specs := []struct {
		name        string
		description string
		build       func(functiontool.Config) (tool.Tool, error)
	}{
		{
			name:        "search_issues",
			description: "Search for Jira issues using a JQL query or plain free text. Returns matching issues with key, summary, status, type, priority and a link.",
			build: func(c functiontool.Config) (tool.Tool, error) {
				return functiontool.New(c, ts.searchIssues)
			},
		},
		{
			name:        "get_issue",
			description: "Get detailed information about a specific Jira issue by its key (e.g. PROJ-123): summary, description, status, assignee, reporter, dates and a link.",
			build: func(c functiontool.Config) (tool.Tool, error) {
				return functiontool.New(c, ts.getIssue)
			},
		},
		{
			name:        "create_issue",
			description: "Create a new Jira issue in a project. Requires project key and summary; issue type defaults to Task, priority is optional.",
			build: func(c functiontool.Config) (tool.Tool, error) {
				return functiontool.New(c, ts.createIssue)
			},
		},
		{
			name:        "add_comment",
			description: "Add a comment to an existing Jira issue.",
			build: func(c functiontool.Config) (tool.Tool, error) {
				return functiontool.New(c, ts.addComment)
			},
		},
		{
			name:        "get_comments",
			description: "List the comments of a Jira issue with author, timestamps and text.",
			build: func(c functiontool.Config) (tool.Tool, error) {
				return functiontool.New(c, ts.getComments)
			},
		},
		{
			name:        "assign_issue",
			description: "Assign a Jira issue to a user, or unassign it by passing 'none' or 'unassigned'.",
			build: func(c functiontool.Config) (tool.Tool, error) {
				return functiontool.New(c, ts.assignIssue)
			},
		},
		{
			name:        "transition_issue",
			description: "Move a Jira issue through its workflow by transition ID or name (e.g. 'In Progress', 'Done'). When the transition is unknown, the error lists the available ones.",
			build: func(c functiontool.Config) (tool.Tool, error) {
				return functiontool.New(c, ts.transitionIssue)
			},
		},
		{
			name:        "list_projects",
			description: "List the Jira projects visible to the configured account.",
			build: func(c functiontool.Config) (tool.Tool, error) {
				return functiontool.New(c, ts.listProjects)
			},
		},
		{
			name:        "list_issue_types",
			description: "List the available Jira issue types, optionally restricted to one project.",
			build: func(c functiontool.Config) (tool.Tool, error) {
				return functiontool.New(c, ts.listIssueTypes)
			},
		},
		{
			name:        "list_priorities",
			description: "List the available Jira priority levels.",
			build: func(c functiontool.Config) (tool.Tool, error) {
				return functiontool.New(c, ts.listPriorities)
			},
		},
	}

	for _, spec := range specs {
		t, err := spec.build(functiontool.Config{
			Name:        spec.name,
			Description: spec.description,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create %s tool: %w", spec.name, err)
		}
		ts.tools = append(ts.tools, t)
	}

	return ts, nil
}

// Name returns the name of the toolset.
func (ts *Toolset) Name() string {
	return "jira_toolset"
}

// Tools returns the list of Jira tools.
func (ts *Toolset) Tools(ctx agent.ReadonlyContext) ([]tool.Tool, error) {
	return ts.tools, nil
}

// SearchArgs are the arguments for the search_issues tool.
type SearchArgs struct {
	// Query is a JQL query or plain free text
	Query string `json:"query"`
	// MaxResults limits the number of returned issues (default 10)
	MaxResults int `json:"max_results,omitempty"`
}

func (ts *Toolset) searchIssues(ctx tool.Context, args SearchArgs) (*SearchResults, error) {
	if args.Query == "" {
		return nil, fmt.Errorf("query cannot be empty")
	}
	return ts.client.SearchIssues(ctx, args.Query, args.MaxResults)
}

// IssueArgs identify one issue by key.
type IssueArgs struct {
	// IssueKey is the issue identifier, e.g. PROJ-123
	IssueKey string `json:"issue_key"`
}

func (ts *Toolset) getIssue(ctx tool.Context, args IssueArgs) (*Issue, error) {
	if args.IssueKey == "" {
		return nil, fmt.Errorf("issue_key cannot be empty")
	}
	return ts.client.GetIssue(ctx, args.IssueKey)
}

// CreateArgs are the arguments for the create_issue tool.
type CreateArgs struct {
	// ProjectKey is the target project, e.g. PROJ
	ProjectKey string `json:"project_key"`
	// Summary is the issue title
	Summary string `json:"summary"`
	// Description is the issue body (optional)
	Description string `json:"description,omitempty"`
	// IssueType is the type name, e.g. Task or Bug (default: Task)
	IssueType string `json:"issue_type,omitempty"`
	// Priority is the priority name (optional)
	Priority string `json:"priority,omitempty"`
}

func (ts *Toolset) createIssue(ctx tool.Context, args CreateArgs) (*CreatedIssue, error) {
	if args.ProjectKey == "" {
		return nil, fmt.Errorf("project_key cannot be empty")
	}
	if args.Summary == "" {
		return nil, fmt.Errorf("summary cannot be empty")
	}
	return ts.client.CreateIssue(ctx, args.ProjectKey, args.Summary, args.Description, args.IssueType, args.Priority)
}

// CommentArgs are the arguments for the add_comment tool.
type CommentArgs struct {
	// IssueKey is the issue identifier, e.g. PROJ-123
	IssueKey string `json:"issue_key"`
	// Comment is the text to post
	Comment string `json:"comment"`
}

func (ts *Toolset) addComment(ctx tool.Context, args CommentArgs) (*AddedComment, error) {
	if args.IssueKey == "" {
		return nil, fmt.Errorf("issue_key cannot be empty")
	}
	if args.Comment == "" {
		return nil, fmt.Errorf("comment cannot be empty")
	}
	return ts.client.AddComment(ctx, args.IssueKey, args.Comment)
}

// CommentsResult is the result of the get_comments tool.
type CommentsResult struct {
	// Comments contains the issue's comments
	Comments []Comment `json:"comments"`
	// Count is the number of comments found
	Count int `json:"count"`
}

func (ts *Toolset) getComments(ctx tool.Context, args IssueArgs) (*CommentsResult, error) {
	if args.IssueKey == "" {
		return nil, fmt.Errorf("issue_key cannot be empty")
	}
	comments, err := ts.client.GetComments(ctx, args.IssueKey)
	if err != nil {
		return nil, err
	}
	return &CommentsResult{Comments: comments, Count: len(comments)}, nil
}

// AssignArgs are the arguments for the assign_issue tool.
type AssignArgs struct {
	// IssueKey is the issue identifier, e.g. PROJ-123
	IssueKey string `json:"issue_key"`
	// Assignee is the username, or 'none'/'unassigned' to clear
	Assignee string `json:"assignee"`
}

func (ts *Toolset) assignIssue(ctx tool.Context, args AssignArgs) (*Assignment, error) {
	if args.IssueKey == "" {
		return nil, fmt.Errorf("issue_key cannot be empty")
	}
	return ts.client.AssignIssue(ctx, args.IssueKey, args.Assignee)
}

// TransitionArgs are the arguments for the transition_issue tool.
type TransitionArgs struct {
	// IssueKey is the issue identifier, e.g. PROJ-123
	IssueKey string `json:"issue_key"`
	// TransitionID is the numeric transition ID (optional)
	TransitionID string `json:"transition_id,omitempty"`
	// TransitionName is the transition name, e.g. 'In Progress' (optional)
	TransitionName string `json:"transition_name,omitempty"`
}

func (ts *Toolset) transitionIssue(ctx tool.Context, args TransitionArgs) (*StatusChange, error) {
	if args.IssueKey == "" {
		return nil, fmt.Errorf("issue_key cannot be empty")
	}
	return ts.client.TransitionIssue(ctx, args.IssueKey, args.TransitionID, args.TransitionName)
}

// ProjectsResult is the result of the list_projects tool.
type ProjectsResult struct {
	Projects []Project `json:"projects"`
	Count    int       `json:"count"`
}

func (ts *Toolset) listProjects(ctx tool.Context, _ struct{}) (*ProjectsResult, error) {
	projects, err := ts.client.ListProjects(ctx)
	if err != nil {
		return nil, err
	}
	return &ProjectsResult{Projects: projects, Count: len(projects)}, nil
}

// IssueTypesArgs are the arguments for the list_issue_types tool.
type IssueTypesArgs struct {
	// ProjectKey restricts the listing to one project (optional)
	ProjectKey string `json:"project_key,omitempty"`
}

// IssueTypesResult is the result of the list_issue_types tool.
type IssueTypesResult struct {
	IssueTypes []IssueType `json:"issue_types"`
	Count      int         `json:"count"`
}

func (ts *Toolset) listIssueTypes(ctx tool.Context, args IssueTypesArgs) (*IssueTypesResult, error) {
	types, err := ts.client.ListIssueTypes(ctx, args.ProjectKey)
	if err != nil {
		return nil, err
	}
	return &IssueTypesResult{IssueTypes: types, Count: len(types)}, nil
}

// PrioritiesResult is the result of the list_priorities tool.
type PrioritiesResult struct {
	Priorities []Priority `json:"priorities"`
	Count      int        `json:"count"`
}

func (ts *Toolset) listPriorities(ctx tool.Context, _ struct{}) (*PrioritiesResult, error) {
	priorities, err := ts.client.ListPriorities(ctx)
	if err != nil {
		return nil, err
	}
	return &PrioritiesResult{Priorities: priorities, Count: len(priorities)}, nil
}

// Ensure interface is implemented
var _ tool.Toolset = (*Toolset)(nil)
