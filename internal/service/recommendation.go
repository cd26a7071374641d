package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/arno756/storage-advisor/ai"
	"github.com/arno756/storage-advisor/internal/models"
	"github.com/arno756/storage-advisor/pkg/cache"
	apperrors "github.com/arno756/storage-advisor/pkg/errors"
	"github.com/arno756/storage-advisor/pkg/logger"
	"github.com/arno756/storage-advisor/pkg/metrics"
	"github.com/arno756/storage-advisor/pkg/resilience"

	"gorm.io/gorm"
)

// ChatCompleter is the completion capability used by the orchestrators.
// Implemented by ai.Client; tests substitute fakes.
type ChatCompleter interface {
	Complete(ctx context.Context, messages []ai.Message, params ai.CompletionParams) (string, error)
}

// ResponseEntry is one question/answer pair as sent by the recommendation
// request. The free-form answer carries the sentinel question ID.
type ResponseEntry struct {
	Question   string `json:"question"`
	Answer     string `json:"answer"`
	QuestionID int    `json:"question_id"`
}

const (
	recommendationSystemPrompt = "You are an expert data storage recommendation system. Be concise and helpful."

	featureTableCacheKey = "feature_comparison"

	// Returned in place of the comparison table when the store is unreachable.
	// Degrading here keeps the recommendation request alive.
	featureTableErrorText = "Error fetching the feature comparison table."
)

const featureTableHeader = `| Feature               | Azure AI Search | Azure Cosmos DB NoSQL | Azure Cosmos DB MongoDB vCore  | Azure SQL DB     | Azure PostgreSQL |
|-----------------------|-----------------|----------------------|--------------------------------|------------------|------------------|
`

const databaseResources = `Resources for Azure AI Search:
- Accelerator:
    - https://github.com/Azure-Samples/chat-with-your-data-solution-accelerator
    - https://github.com/Azure-Samples/azure-search-openai-demo
    - https://github.com/Azure-Samples/aisearch-openai-rag-audio
- Internal resources for AI Design Win: https://microsoft.sharepoint.com/sites/AIDesignWins

Resources for Azure Cosmos DB:
- Accelerator Chat Application: https://github.com/AzureCosmosDB/cosmosdb-nosql-copilot
- Accelerator for Multi-Agents:
    - https://github.com/microsoft/Multi-Agent-Custom-Automation-Engine-Solution-Accelerator
    - https://github.com/AzureCosmosDB/multi-agent-swarm/
- Azure Cosmos DB - Generative AI Gallery: https://azurecosmosdb.github.io/gallery/?tags=generativeai
- Database Experts: [Email Me](mailto:catdb@microsoft.com)
- Internal resources for AI Design Win: https://microsoft.sharepoint.com/sites/AIDesignWins

Resources for Azure SQL Database:
- Accelerator: https://github.com/Azure-Samples/SQL-AI-samples
- Samples: https://github.com/Azure-Samples/azure-sql-db-vector-search/tree/main
- Database Experts: [Email Me](mailto:catdb@microsoft.com)
- Internal resources for AI Design Win: https://microsoft.sharepoint.com/sites/AIDesignWins

Resources for Azure PostgreSQL:
- Accelerator RAG application: https://github.com/Azure-Samples/rag-postgres-openai-python
- Accelerator GraphRAG: https://github.com/Azure-Samples/graphrag-legalcases-postgres/
- Accelerator Advanced AI Copilot with Postgres (AI-driven data validation, vector search, DiskANN, semantic re-ranking, LangChain agent/tools framework, and GraphRAG on Azure Database for PostgreSQL): https://github.com/Azure-Samples/postgres-sa-byoac
- Accelerator PostgreSQL Solution Accelerator (FSI Scenario using structured and unstructured data): https://github.com/solliancenet/microsoft-postgresql-solution-accelerator-build-your-own-ai-copilot
- Samples to learn how to use Semantic Ranker: https://github.com/microsoft/Semantic-Ranker-Solution-PostgreSQL
- Database Experts: [Email Me](mailto:catdb@microsoft.com)
- Internal resources for AI Design Win: https://microsoft.sharepoint.com/sites/AIDesignWins
`

const indexingGuidance = `Databases are preferred for vector indexes and Knowledge Base when:
- You have structured or semi-structured operational data (e.g., chat history, customer profiles, business transactions) in that database.
- Simplified architecture for a single source of truth, combining vector similarity search inline with database queries.
- The workload benefits from mission-critical OLTP database characteristics.
AI Search is preferred for vector indexes when:
- You need to index structured/unstructured data (e.g., images, docx, PDFs) from various sources.
- Your application requires state-of-the-art search technology.
- The workload requires multi-modal search and/or embeddings.
- You're building a Bing-like search experience.
`

// RecommendationOptions configures the recommendation orchestrator
type RecommendationOptions struct {
	Breaker     *resilience.CircuitBreaker
	TableCache  *cache.Cache
	Metrics     *metrics.Metrics
	Logger      *logger.Logger
	MaxTokens   int
	Temperature float64
}

// RecommendationService assembles the recommendation prompt, calls the
// completion client and records the exchange
type RecommendationService struct {
	db         *gorm.DB
	completer  ChatCompleter
	breaker    *resilience.CircuitBreaker
	tableCache *cache.Cache
	metrics    *metrics.Metrics
	log        *logger.Logger
	params     ai.CompletionParams
}

// NewRecommendationService creates a new recommendation service
func NewRecommendationService(db *gorm.DB, completer ChatCompleter, opts RecommendationOptions) *RecommendationService {
	log := opts.Logger
	if log == nil {
		log = logger.GetGlobal()
	}
	breaker := opts.Breaker
	if breaker == nil {
		breaker = resilience.NewCircuitBreaker(resilience.DefaultConfig("completion"), log)
	}
	m := opts.Metrics
	if m == nil {
		m = metrics.New()
	}
	maxTokens := opts.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 1000
	}
	temperature := opts.Temperature
	if temperature <= 0 {
		temperature = 1.0
	}

	return &RecommendationService{
		db:         db,
		completer:  completer,
		breaker:    breaker,
		tableCache: opts.TableCache,
		metrics:    m,
		log:        log,
		params:     ai.CompletionParams{MaxTokens: maxTokens, Temperature: temperature},
	}
}

// FeatureComparisonTable renders the comparison reference as a markdown
// table. A store failure degrades to a literal error string so that the
// recommendation request can still proceed.
func (s *RecommendationService) FeatureComparisonTable() string {
	if s.tableCache != nil {
		if cached, found := s.tableCache.Get(featureTableCacheKey); found {
			if table, ok := cached.(string); ok {
				return table
			}
		}
	}

	var rows []models.FeatureComparison
	if err := s.db.Order("id ASC").Find(&rows).Error; err != nil {
		s.log.LogError(err, "failed to fetch feature comparison table")
		return featureTableErrorText
	}

	var b strings.Builder
	b.WriteString(featureTableHeader)
	for _, row := range rows {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s |\n",
			row.Feature, row.AISearch, row.CosmosNoSQL, row.CosmosMongoVCore, row.SQLDB, row.PostgreSQL)
	}
	table := b.String()

	if s.tableCache != nil {
		s.tableCache.Set(featureTableCacheKey, table)
	}
	return table
}

// Recommend generates a data-storage recommendation for the session and
// records the exchange best-effort. A completion failure fails the request;
// a persistence failure after a successful completion does not.
func (s *RecommendationService) Recommend(ctx context.Context, sessionID string, responses []ResponseEntry, top5Features []string) (string, error) {
	freeForm := ""
	for _, r := range responses {
		if r.QuestionID == models.FreeFormQuestionID {
			freeForm = r.Answer
		}
	}

	featureTable := s.FeatureComparisonTable()
	prompt := buildRecommendationPrompt(responses, top5Features, freeForm, featureTable)

	messages := []ai.Message{
		ai.SystemMessage(recommendationSystemPrompt),
		ai.UserMessage(prompt),
	}

	var recommendation string
	err := s.breaker.Execute(func() error {
		var completeErr error
		recommendation, completeErr = s.completer.Complete(ctx, messages, s.params)
		return completeErr
	})
	if err != nil {
		s.metrics.CompletionCalls.WithLabelValues("recommendation", "failure").Inc()
		return "", apperrors.NewUpstreamError("An error occurred while generating the recommendation.", err)
	}
	s.metrics.CompletionCalls.WithLabelValues("recommendation", "success").Inc()

	exchange := models.LLMExchange{
		SessionID:    sessionID,
		Prompt:       prompt,
		ResponseText: recommendation,
	}
	if saveErr := s.db.Create(&exchange).Error; saveErr != nil {
		// Best-effort side record: the recommendation is still returned
		s.metrics.SideRecordFailures.WithLabelValues("recommendation").Inc()
		s.log.LogError(saveErr, "failed to save recommendation exchange", "session_id", sessionID)
	}

	return recommendation, nil
}

// buildRecommendationPrompt deterministically assembles the user prompt from
// the questionnaire responses, ranked features, free-form details, the
// comparison table and static reference material
func buildRecommendationPrompt(responses []ResponseEntry, top5Features []string, freeForm, featureTable string) string {
	var b strings.Builder

	b.WriteString("The user has completed a questionnaire.\nHere are their responses:\n")
	for _, r := range responses {
		fmt.Fprintf(&b, "- %s: %s\n", r.Question, r.Answer)
	}

	if len(top5Features) > 0 {
		b.WriteString("\nThey identified these TOP 5 Requirements:\n")
		for i, feature := range top5Features {
			fmt.Fprintf(&b, "#%d: %s\n", i+1, feature)
		}
	}

	if freeForm != "" {
		fmt.Fprintf(&b, "\nAdditional free-form details:\n%s\n", freeForm)
	}

	b.WriteString("\nProvide a personalized recommendation between Azure AI Search, Azure SQL Database, Azure Cosmos DB, and Azure PostgreSQL for each scenario that the user has selected.\n")
	b.WriteString("Try to use the same data source across scenarios if possible. Include relevant resources.\n\n")
	fmt.Fprintf(&b, "Use this feature comparison for reference:\n\n%s\n\n%s\n\n", featureTable, databaseResources)
	b.WriteString(indexingGuidance)
	b.WriteString("\nFinally, you should ask follow-up questions at the end of your recommendation.\n")
	b.WriteString("For example, what framework does the customer use? Do they have an existing database skill/preference? But most important, use your judgement based on the application and data scenarios used.\n")

	return b.String()
}
