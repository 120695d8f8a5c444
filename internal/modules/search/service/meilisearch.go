package service

import (
	"encoding/json"
	"fmt"
	"html"
	"strings"

	"anoa.com/collabhub/internal/entity"
	"github.com/meilisearch/meilisearch-go"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog/log"
)

const projectIndex = "projects"

// ProjectIndexer keeps the search index in step with project writes.
type ProjectIndexer interface {
	IndexProject(project *entity.Project) error
	DeleteProject(id string) error
}

type MeiliSearchService interface {
	ProjectIndexer
	// IndexProjects upserts projects in a single batch.
	IndexProjects(projects []*entity.Project) error
	// SearchProjectIDs returns the ids of the best matching projects in rank
	// order.
	SearchProjectIDs(query string, limit int) ([]string, error)
}

type meiliSearchService struct {
	client    meilisearch.ServiceManager
	sanitizer *bluemonday.Policy
}

func NewMeiliSearchService(client meilisearch.ServiceManager) MeiliSearchService {
	s := &meiliSearchService{
		client:    client,
		sanitizer: bluemonday.StrictPolicy(),
	}
	s.initIndexes()
	return s
}

func (s *meiliSearchService) initIndexes() {
	filterableAttrs := []string{"category", "tags", "createdBy", "type"}
	filterableInterface := make([]any, len(filterableAttrs))
	for i, v := range filterableAttrs {
		filterableInterface[i] = v
	}
	if _, err := s.client.Index(projectIndex).UpdateFilterableAttributes(&filterableInterface); err != nil {
		log.Warn().Err(err).Msg("failed to update projects filterable attributes")
	}

	sortableAttrs := []string{"updated_at"}
	if _, err := s.client.Index(projectIndex).UpdateSortableAttributes(&sortableAttrs); err != nil {
		log.Warn().Err(err).Msg("failed to update projects sortable attributes")
	}

	log.Info().Str("index", projectIndex).Msg("meilisearch index initialized")
}

type meiliProjectDoc struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Tags        []string `json:"tags"`
	CreatedBy   string   `json:"createdBy"`
	Type        string   `json:"type"`
	MemberCount int      `json:"member_count"`
	UpdatedAt   int64    `json:"updated_at"`
}

// cleanTextForIndex strips markup pasted into descriptions so it does not
// pollute ranking.
func (s *meiliSearchService) cleanTextForIndex(text string) string {
	text = strings.ReplaceAll(text, "</p>", " ")
	text = strings.ReplaceAll(text, "<br>", " ")
	text = strings.ReplaceAll(text, "</div>", " ")

	cleaned := html.UnescapeString(s.sanitizer.Sanitize(text))
	return strings.Join(strings.Fields(cleaned), " ")
}

func (s *meiliSearchService) toDoc(p *entity.Project) meiliProjectDoc {
	tags := p.Tags
	if tags == nil {
		tags = []string{}
	}
	return meiliProjectDoc{
		ID:          p.ID.Hex(),
		Title:       p.Title,
		Description: s.cleanTextForIndex(p.Description),
		Category:    p.Category,
		Tags:        tags,
		CreatedBy:   p.CreatedBy,
		Type:        p.Type,
		MemberCount: len(p.Members),
		UpdatedAt:   p.UpdatedAt.Unix(),
	}
}

func (s *meiliSearchService) IndexProject(project *entity.Project) error {
	return s.IndexProjects([]*entity.Project{project})
}

func (s *meiliSearchService) IndexProjects(projects []*entity.Project) error {
	if len(projects) == 0 {
		return nil
	}
	docs := make([]meiliProjectDoc, 0, len(projects))
	for _, p := range projects {
		docs = append(docs, s.toDoc(p))
	}

	task, err := s.client.Index(projectIndex).AddDocuments(docs, strPtr("id"))
	if err != nil {
		return err
	}
	log.Debug().Int("count", len(docs)).Int64("task_uid", task.TaskUID).Msg("indexed projects")
	return nil
}

func (s *meiliSearchService) DeleteProject(id string) error {
	_, err := s.client.Index(projectIndex).DeleteDocument(id)
	return err
}

func (s *meiliSearchService) SearchProjectIDs(query string, limit int) ([]string, error) {
	raw, err := s.client.Index(projectIndex).SearchRaw(query, &meilisearch.SearchRequest{
		Limit:                int64(limit),
		AttributesToRetrieve: []string{"id"},
	})
	if err != nil {
		return nil, fmt.Errorf("meilisearch query failed: %w", err)
	}

	var result struct {
		Hits []struct {
			ID string `json:"id"`
		} `json:"hits"`
	}
	if err := json.Unmarshal(*raw, &result); err != nil {
		return nil, fmt.Errorf("failed to decode search hits: %w", err)
	}

	ids := make([]string, 0, len(result.Hits))
	for _, hit := range result.Hits {
		ids = append(ids, hit.ID)
	}
	return ids, nil
}

func strPtr(s string) *string {
	return &s
}
