// Package mcpserver exposes the pipeline's sub-operations as Model Context
// Protocol tools, each callable in isolation with the same contracts the
// orchestrator uses.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"alfredoptarigan/application-processor/internal/repositories"
	"alfredoptarigan/application-processor/internal/services"
)

type ToolServer struct {
	appRepo    repositories.ApplicationRepository
	extractor  services.DocumentExtractor
	validator  services.ResumeValidator
	summarizer services.Summarizer
	scorer     services.Scorer
	notifier   services.Notifier
	index      services.SimilarityIndex
	server     *server.MCPServer
}

func NewToolServer(
	appRepo repositories.ApplicationRepository,
	extractor services.DocumentExtractor,
	validator services.ResumeValidator,
	summarizer services.Summarizer,
	scorer services.Scorer,
	notifier services.Notifier,
	index services.SimilarityIndex,
) *ToolServer {
	ts := &ToolServer{
		appRepo:    appRepo,
		extractor:  extractor,
		validator:  validator,
		summarizer: summarizer,
		scorer:     scorer,
		notifier:   notifier,
		index:      index,
	}

	ts.server = server.NewMCPServer(
		"application-processor",
		"1.0.0",
		server.WithToolCapabilities(true),
	)
	ts.registerTools()

	return ts
}

// Serve runs the MCP server over stdio until the client disconnects.
func (ts *ToolServer) Serve() error {
	return server.ServeStdio(ts.server)
}

func (ts *ToolServer) registerTools() {
	extractTool := mcp.NewTool("extract_text",
		mcp.WithDescription("Extract plain text from a PDF or DOCX resume file"),
		mcp.WithString("file_path",
			mcp.Required(),
			mcp.Description("Path to the PDF or DOCX file"),
		),
	)
	ts.server.AddTool(extractTool, ts.handleExtractText)

	validateTool := mcp.NewTool("validate_resume",
		mcp.WithDescription("Classify extracted text as resume-like or not"),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("Extracted document text"),
		),
	)
	ts.server.AddTool(validateTool, ts.handleValidateResume)

	emailTool := mcp.NewTool("extract_email",
		mcp.WithDescription("Extract the first email address found in the text"),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("Text to search for an email address"),
		),
	)
	ts.server.AddTool(emailTool, ts.handleExtractEmail)

	existingTool := mcp.NewTool("check_existing_application",
		mcp.WithDescription("Check whether an identical application was already processed"),
		mcp.WithString("email",
			mcp.Required(),
			mcp.Description("Candidate email address"),
		),
		mcp.WithString("resume_text",
			mcp.Required(),
			mcp.Description("Extracted resume text"),
		),
		mcp.WithString("job_description",
			mcp.Required(),
			mcp.Description("Job description text"),
		),
	)
	ts.server.AddTool(existingTool, ts.handleCheckExisting)

	summaryTool := mcp.NewTool("generate_summary",
		mcp.WithDescription("Summarize a job description into one requirements paragraph"),
		mcp.WithString("job_description",
			mcp.Required(),
			mcp.Description("The job description text to summarize"),
		),
	)
	ts.server.AddTool(summaryTool, ts.handleGenerateSummary)

	scoreTool := mcp.NewTool("calculate_score",
		mcp.WithDescription("Compute the 0-100 semantic match score between resume text and a job summary"),
		mcp.WithString("resume_text",
			mcp.Required(),
			mcp.Description("Extracted resume text"),
		),
		mcp.WithString("job_summary",
			mcp.Required(),
			mcp.Description("Summarized job description"),
		),
	)
	ts.server.AddTool(scoreTool, ts.handleCalculateScore)

	inviteTool := mcp.NewTool("send_invitation",
		mcp.WithDescription("Send an interview invitation email to a candidate"),
		mcp.WithString("email",
			mcp.Required(),
			mcp.Description("Recipient email address"),
		),
		mcp.WithNumber("score",
			mcp.Required(),
			mcp.Description("Match score quoted in the invitation"),
		),
	)
	ts.server.AddTool(inviteTool, ts.handleSendInvitation)

	similarTool := mcp.NewTool("find_similar_applications",
		mcp.WithDescription("Find previously processed applications with similar resume content"),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("Resume text to compare against the index"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of results (default: 5)"),
		),
	)
	ts.server.AddTool(similarTool, ts.handleFindSimilar)
}

func (ts *ToolServer) handleExtractText(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("file_path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to read file: %v", err)), nil
	}

	text, err := ts.extractor.Extract(data, filepath.Ext(path))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(text), nil
}

func (ts *ToolServer) handleValidateResume(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := request.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	isResume, err := ts.validator.IsResume(ctx, text)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("%t", isResume)), nil
}

func (ts *ToolServer) handleExtractEmail(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := request.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	email := services.ExtractEmail(text)
	if email == "" {
		return mcp.NewToolResultText("No email address found"), nil
	}

	return mcp.NewToolResultText(email), nil
}

func (ts *ToolServer) handleCheckExisting(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	email, err := request.RequireString("email")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	resumeText, err := request.RequireString("resume_text")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	jobDescription, err := request.RequireString("job_description")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	existing, err := ts.appRepo.FindExact(email, resumeText, jobDescription)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("lookup failed: %v", err)), nil
	}
	if existing == nil {
		return mcp.NewToolResultText("No existing application found"), nil
	}

	payload, err := json.MarshalIndent(existing, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode application: %v", err)), nil
	}

	return mcp.NewToolResultText(string(payload)), nil
}

func (ts *ToolServer) handleGenerateSummary(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	jobDescription, err := request.RequireString("job_description")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	summary, err := ts.summarizer.Summarize(ctx, jobDescription)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(summary), nil
}

func (ts *ToolServer) handleCalculateScore(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	resumeText, err := request.RequireString("resume_text")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	jobSummary, err := request.RequireString("job_summary")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := ts.scorer.Score(ctx, resumeText, jobSummary)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("%.2f", result.Value)), nil
}

func (ts *ToolServer) handleSendInvitation(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	email, err := request.RequireString("email")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	score, err := request.RequireFloat("score")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	delivered, err := ts.notifier.SendInvitation(ctx, email, score)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("email provider unreachable: %v", err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("delivered: %t", delivered)), nil
}

func (ts *ToolServer) handleFindSimilar(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := request.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	limit := request.GetInt("limit", 5)

	embedding, err := ts.scorer.Embed(ctx, text)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	similar, err := ts.index.SearchSimilar(ctx, embedding, limit)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("similarity search failed: %v", err)), nil
	}
	if len(similar) == 0 {
		return mcp.NewToolResultText("No similar applications found"), nil
	}

	payload, err := json.MarshalIndent(similar, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode results: %v", err)), nil
	}

	return mcp.NewToolResultText(string(payload)), nil
}
