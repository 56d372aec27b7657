package search

import (
	"encoding/json"
	"html"
	"log"
	"strings"

	"github.com/meilisearch/meilisearch-go"
	"github.com/microcosm-cc/bluemonday"

	"jigswap.app/jigswap/internal/entity"
)

const puzzleIndex = "puzzles"

type SearchService interface {
	IndexPuzzle(puzzle *entity.Puzzle) error
	DeletePuzzle(id string) error
	SearchPuzzles(query string, categoryID string, limit int64) ([]string, error)
}

type searchService struct {
	client    meilisearch.ServiceManager
	sanitizer *bluemonday.Policy
}

func NewSearchService(client meilisearch.ServiceManager) SearchService {
	s := &searchService{
		client:    client,
		sanitizer: bluemonday.StrictPolicy(),
	}
	s.initIndexes()
	return s
}

func (s *searchService) initIndexes() {
	filterableAttrs := []string{"category_id", "brand", "difficulty", "condition", "is_available"}
	filterableInterface := make([]any, len(filterableAttrs))
	for i, v := range filterableAttrs {
		filterableInterface[i] = v
	}
	if _, err := s.client.Index(puzzleIndex).UpdateFilterableAttributes(&filterableInterface); err != nil {
		log.Printf("failed to update puzzle filterable attributes: %v", err)
	}

	sortableAttrs := []string{"created_at", "piece_count"}
	if _, err := s.client.Index(puzzleIndex).UpdateSortableAttributes(&sortableAttrs); err != nil {
		log.Printf("failed to update puzzle sortable attributes: %v", err)
	}

	log.Println("Meilisearch indexes initialized")
}

type meiliPuzzleDoc struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Brand       string   `json:"brand"`
	PieceCount  int      `json:"piece_count"`
	Difficulty  string   `json:"difficulty"`
	Condition   string   `json:"condition"`
	Tags        []string `json:"tags"`
	CategoryID  string   `json:"category_id"`
	IsAvailable bool     `json:"is_available"`
	OwnerName   string   `json:"owner_name"`
	CreatedAt   int64    `json:"created_at"`
}

// cleanContent strips markup from user-entered text before it is indexed.
func (s *searchService) cleanContent(content string) string {
	content = strings.ReplaceAll(content, "</p>", " ")
	content = strings.ReplaceAll(content, "<br>", " ")
	content = strings.ReplaceAll(content, "</div>", " ")

	sanitized := s.sanitizer.Sanitize(content)
	cleanText := html.UnescapeString(sanitized)

	return strings.Join(strings.Fields(cleanText), " ")
}

func (s *searchService) IndexPuzzle(puzzle *entity.Puzzle) error {
	categoryID := ""
	if puzzle.CategoryID != nil {
		categoryID = puzzle.CategoryID.String()
	}

	doc := meiliPuzzleDoc{
		ID:          puzzle.ID.String(),
		Title:       puzzle.Title,
		Description: s.cleanContent(puzzle.Description),
		Brand:       puzzle.Brand,
		PieceCount:  puzzle.PieceCount,
		Difficulty:  puzzle.Difficulty,
		Condition:   puzzle.Condition,
		Tags:        puzzle.Tags,
		CategoryID:  categoryID,
		IsAvailable: puzzle.IsAvailable,
		OwnerName:   puzzle.Owner.Username,
		CreatedAt:   puzzle.CreatedAt.Unix(),
	}

	_, err := s.client.Index(puzzleIndex).AddDocuments([]meiliPuzzleDoc{doc}, nil)
	return err
}

func (s *searchService) DeletePuzzle(id string) error {
	_, err := s.client.Index(puzzleIndex).DeleteDocument(id)
	return err
}

// SearchPuzzles returns matching puzzle ids ordered by relevance. The DB
// remains the source of truth; callers hydrate full records from it.
func (s *searchService) SearchPuzzles(query string, categoryID string, limit int64) ([]string, error) {
	req := &meilisearch.SearchRequest{
		Limit: limit,
	}
	if categoryID != "" {
		req.Filter = "category_id = " + categoryID
	}

	resp, err := s.client.Index(puzzleIndex).Search(query, req)
	if err != nil {
		return nil, err
	}

	return hitIDs(resp.Hits), nil
}

// hitIDs decodes the "id" field from raw search hits, skipping malformed ones.
func hitIDs(hits []meilisearch.Hit) []string {
	ids := make([]string, 0, len(hits))
	for _, hit := range hits {
		raw, ok := hit["id"]
		if !ok {
			continue
		}
		var id string
		if err := json.Unmarshal(raw, &id); err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

// NewClient builds the Meilisearch client from environment configuration.
func NewClient(host, apiKey string) meilisearch.ServiceManager {
	if host == "" {
		host = "http://localhost:7700"
	}
	if !strings.HasPrefix(host, "http") {
		host = "http://" + host + ":7700"
	}
	return meilisearch.New(host, meilisearch.WithAPIKey(apiKey))
}
