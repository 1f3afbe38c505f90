package services

import (
	"context"

	"readleaf/cmd/api/dto"
	"readleaf/models"
	"readleaf/storage"
)

// ArticleReader is the slice of the article repository the service uses.
type ArticleReader interface {
	GetByID(ctx context.Context, id string) (*models.Article, error)
	IncrementReadCount(ctx context.Context, id string) error
}

// URLResolver maps storage keys to public URLs.
type URLResolver interface {
	PublicURL(key string) string
}

// ArticleService encapsulates article reads and DTO mapping
type ArticleService struct {
	repo ArticleReader
	urls URLResolver
}

func NewArticleService(repo ArticleReader, urls URLResolver) *ArticleService {
	return &ArticleService{repo: repo, urls: urls}
}

func (s *ArticleService) Get(ctx context.Context, id string) (dto.ArticleDTO, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return dto.ArticleDTO{}, err
	}
	return dto.NewArticleDTO(a,
		s.urls.PublicURL(storage.ImageKey(id)),
		s.urls.PublicURL(storage.AudioKey(id)),
	), nil
}

func (s *ArticleService) IncrementReadCount(ctx context.Context, id string) error {
	return s.repo.IncrementReadCount(ctx, id)
}
