package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/sanjeetk74691-glitch/Kirana-store/internal/datamodels/chat"
	"github.com/sanjeetk74691-glitch/Kirana-store/internal/datamodels/order"
	"github.com/sanjeetk74691-glitch/Kirana-store/internal/datamodels/product"
)

// ---- 内存版仓储，供各服务测试复用 ----

type fakeProductRepo struct {
	products map[int64]*product.Product
}

func newFakeProductRepo(list ...*product.Product) *fakeProductRepo {
	r := &fakeProductRepo{products: make(map[int64]*product.Product)}
	for _, p := range list {
		r.products[p.ID] = p
	}
	return r
}

func (r *fakeProductRepo) GetByID(ctx context.Context, id int64) (*product.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, fmt.Errorf("record not found")
	}
	cp := *p
	return &cp, nil
}

func (r *fakeProductRepo) sorted() []*product.Product {
	out := make([]*product.Product, 0, len(r.products))
	for _, p := range r.products {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *fakeProductRepo) ListAll(ctx context.Context) ([]*product.Product, error) {
	return r.sorted(), nil
}

func (r *fakeProductRepo) ListOnline(ctx context.Context) ([]*product.Product, error) {
	var out []*product.Product
	for _, p := range r.sorted() {
		if p.Status == 1 {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakeProductRepo) ListByCategory(ctx context.Context, category string) ([]*product.Product, error) {
	var out []*product.Product
	for _, p := range r.sorted() {
		if p.Status == 1 && (category == "" || category == "all" || p.Category == category) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakeProductRepo) Create(ctx context.Context, p *product.Product) error {
	if p.ID == 0 {
		p.ID = int64(len(r.products) + 1)
	}
	r.products[p.ID] = p
	return nil
}

func (r *fakeProductRepo) Update(ctx context.Context, p *product.Product) error {
	r.products[p.ID] = p
	return nil
}

func (r *fakeProductRepo) Delete(ctx context.Context, id int64) error {
	delete(r.products, id)
	return nil
}

func (r *fakeProductRepo) DecrementStock(ctx context.Context, id, qty int64) error {
	p, ok := r.products[id]
	if !ok || p.Stock < qty {
		return fmt.Errorf("product %d: stock below %d", id, qty)
	}
	p.Stock -= qty
	return nil
}

type fakeOrderRepo struct {
	orders []*order.Order
}

func (r *fakeOrderRepo) Create(ctx context.Context, o *order.Order) error {
	r.orders = append(r.orders, o)
	return nil
}

func (r *fakeOrderRepo) GetByID(ctx context.Context, id string) (*order.Order, error) {
	for _, o := range r.orders {
		if o.ID == id {
			return o, nil
		}
	}
	return nil, fmt.Errorf("record not found")
}

func (r *fakeOrderRepo) ListByUser(ctx context.Context, userID int64) ([]*order.Order, error) {
	var out []*order.Order
	for _, o := range r.orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (r *fakeOrderRepo) ListRecent(ctx context.Context, limit int) ([]*order.Order, error) {
	n := len(r.orders)
	if limit > 0 && n > limit {
		n = limit
	}
	out := make([]*order.Order, 0, n)
	for i := len(r.orders) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, r.orders[i])
	}
	return out, nil
}

type fakeChatRepo struct {
	messages []*chat.Message
}

func (r *fakeChatRepo) Create(ctx context.Context, m *chat.Message) error {
	m.ID = uint64(len(r.messages) + 1)
	r.messages = append(r.messages, m)
	return nil
}

func (r *fakeChatRepo) ListByContact(ctx context.Context, contactID string, afterID uint64, limit int) ([]*chat.Message, error) {
	var out []*chat.Message
	for _, m := range r.messages {
		if m.ContactID == contactID && m.ID > afterID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *fakeChatRepo) ListContacts(ctx context.Context) ([]string, error) {
	seen := make(map[string]struct{})
	var out []string
	for _, m := range r.messages {
		if _, ok := seen[m.ContactID]; ok {
			continue
		}
		seen[m.ContactID] = struct{}{}
		out = append(out, m.ContactID)
	}
	return out, nil
}
