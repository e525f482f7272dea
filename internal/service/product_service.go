package service

import (
	"context"
	"strings"

	"github.com/sanjeetk74691-glitch/Kirana-store/internal/datamodels/product"
)

type ProductService struct {
	repo product.Repository
}

func NewProductService(repo product.Repository) *ProductService {
	return &ProductService{repo: repo}
}

func (s *ProductService) ListOnline(ctx context.Context) ([]*product.Product, error) {
	return s.repo.ListOnline(ctx)
}

func (s *ProductService) ListAll(ctx context.Context) ([]*product.Product, error) {
	return s.repo.ListAll(ctx)
}

func (s *ProductService) ListByCategory(ctx context.Context, category string) ([]*product.Product, error) {
	return s.repo.ListByCategory(ctx, category)
}

// Browse 按分类 + 名称关键字筛选在售商品，关键字在内存中做不区分大小写的子串匹配
func (s *ProductService) Browse(ctx context.Context, category, keyword string) ([]*product.Product, error) {
	var list []*product.Product
	var err error
	if category != "" {
		list, err = s.repo.ListByCategory(ctx, category)
	} else {
		list, err = s.repo.ListOnline(ctx)
	}
	if err != nil {
		return nil, err
	}
	if keyword == "" {
		return list, nil
	}
	kw := strings.ToLower(keyword)
	filtered := make([]*product.Product, 0, len(list))
	for _, p := range list {
		if strings.Contains(strings.ToLower(p.Name), kw) {
			filtered = append(filtered, p)
		}
	}
	return filtered, nil
}

// FindByName 按名称精确（忽略大小写）查找在售商品，助手识图后用它回链商品
func (s *ProductService) FindByName(ctx context.Context, name string) (*product.Product, error) {
	list, err := s.repo.ListOnline(ctx)
	if err != nil {
		return nil, err
	}
	target := strings.ToLower(strings.TrimSpace(name))
	for _, p := range list {
		if strings.ToLower(p.Name) == target {
			return p, nil
		}
	}
	// 精确无果时退化为子串匹配
	for _, p := range list {
		if strings.Contains(strings.ToLower(p.Name), target) || strings.Contains(target, strings.ToLower(p.Name)) {
			return p, nil
		}
	}
	return nil, nil
}

func (s *ProductService) GetByID(ctx context.Context, id int64) (*product.Product, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *ProductService) Create(ctx context.Context, p *product.Product) error {
	return s.repo.Create(ctx, p)
}

func (s *ProductService) Update(ctx context.Context, p *product.Product) error {
	return s.repo.Update(ctx, p)
}

func (s *ProductService) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}
