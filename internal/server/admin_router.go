package server

import (
	"fmt"
	"strconv"

	"github.com/kataras/iris/v12"

	"github.com/sanjeetk74691-glitch/Kirana-store/internal/config"
	"github.com/sanjeetk74691-glitch/Kirana-store/internal/datamodels/product"
	"github.com/sanjeetk74691-glitch/Kirana-store/internal/repository/mysql"
	"github.com/sanjeetk74691-glitch/Kirana-store/internal/service"
)

// RegisterAdminRoutes 注册后台管理端的 HTTP 路由
// 端口通常是 8081，与前台 Web 服务分离。
func RegisterAdminRoutes(app *iris.Application, cfg *config.Config) {
	// 初始化基础设施
	db := mysql.Init(&cfg.MySQL)

	// 仓储与服务
	productRepo := mysql.NewProductRepository(db)
	orderRepo := mysql.NewOrderRepository(db)
	chatRepo := mysql.NewChatRepository(db)

	productSvc := service.NewProductService(productRepo)
	orderSvc := service.NewOrderService(orderRepo)
	chatSvc := service.NewChatService(chatRepo)
	statsSvc := service.NewStatsService(productRepo, orderRepo)

	// 静态资源
	app.HandleDir("/assets", iris.Dir("./web/admin/assets"))
	app.Get("/", func(ctx iris.Context) {
		_ = ctx.ServeFile("./web/admin/index.html")
	})

	api := app.Party("/api")

	// ---------- 商品管理 ----------

	// 商品列表（后台用：返回所有商品）
	api.Get("/products", func(ctx iris.Context) {
		list, err := productSvc.ListAll(ctx.Request().Context())
		if err != nil {
			ctx.StopWithJSON(500, iris.Map{"code": 500, "msg": err.Error()})
			return
		}
		ctx.JSON(iris.Map{"code": 0, "data": list})
	})

	// 创建商品
	api.Post("/products", func(ctx iris.Context) {
		var req productRequest
		if err := ctx.ReadJSON(&req); err != nil {
			ctx.StopWithJSON(400, iris.Map{"code": 400, "msg": err.Error()})
			return
		}
		p := &product.Product{}
		if err := req.applyTo(p); err != nil {
			ctx.StopWithJSON(400, iris.Map{"code": 400, "msg": err.Error()})
			return
		}
		if err := productSvc.Create(ctx.Request().Context(), p); err != nil {
			ctx.StopWithJSON(500, iris.Map{"code": 500, "msg": err.Error()})
			return
		}
		ctx.JSON(iris.Map{"code": 0, "data": p})
	})

	// 更新商品
	api.Put("/products/{id:uint64}", func(ctx iris.Context) {
		id, _ := ctx.Params().GetUint64("id")
		p, err := productSvc.GetByID(ctx.Request().Context(), int64(id))
		if err != nil {
			ctx.StopWithJSON(404, iris.Map{"code": 404, "msg": "product not found"})
			return
		}
		var req productRequest
		if err := ctx.ReadJSON(&req); err != nil {
			ctx.StopWithJSON(400, iris.Map{"code": 400, "msg": err.Error()})
			return
		}
		if err := req.applyTo(p); err != nil {
			ctx.StopWithJSON(400, iris.Map{"code": 400, "msg": err.Error()})
			return
		}
		if err := productSvc.Update(ctx.Request().Context(), p); err != nil {
			ctx.StopWithJSON(500, iris.Map{"code": 500, "msg": err.Error()})
			return
		}
		ctx.JSON(iris.Map{"code": 0, "data": p})
	})

	// 删除商品
	api.Delete("/products/{id:uint64}", func(ctx iris.Context) {
		id, _ := ctx.Params().GetUint64("id")
		if err := productSvc.Delete(ctx.Request().Context(), int64(id)); err != nil {
			ctx.StopWithJSON(500, iris.Map{"code": 500, "msg": err.Error()})
			return
		}
		ctx.JSON(iris.Map{"code": 0, "msg": "deleted"})
	})

	// ---------- 订单管理 ----------

	// 最近订单列表
	api.Get("/orders", func(ctx iris.Context) {
		limitStr := ctx.URLParamDefault("limit", "20")
		limit, err := strconv.Atoi(limitStr)
		if err != nil || limit <= 0 {
			limit = 20
		}
		list, err := orderSvc.ListRecent(ctx.Request().Context(), limit)
		if err != nil {
			ctx.StopWithJSON(500, iris.Map{"code": 500, "msg": err.Error()})
			return
		}
		ctx.JSON(iris.Map{"code": 0, "data": list})
	})

	// 指定用户订单
	api.Get("/users/{id:uint64}/orders", func(ctx iris.Context) {
		uid, _ := ctx.Params().GetUint64("id")
		list, err := orderSvc.ListByUser(ctx.Request().Context(), int64(uid))
		if err != nil {
			ctx.StopWithJSON(500, iris.Map{"code": 500, "msg": err.Error()})
			return
		}
		ctx.JSON(iris.Map{"code": 0, "data": list})
	})

	// ---------- 仪表盘 ----------

	// 库存/订单汇总，前端静态图表的数据源
	api.Get("/dashboard", func(ctx iris.Context) {
		stats, err := statsSvc.Dashboard(ctx.Request().Context())
		if err != nil {
			ctx.StopWithJSON(500, iris.Map{"code": 500, "msg": err.Error()})
			return
		}
		ctx.JSON(iris.Map{"code": 0, "data": stats})
	})

	// 运行指标
	api.Get("/stats", func(ctx iris.Context) {
		ctx.JSON(iris.Map{"code": 0, "data": service.GetMonitor().GetStats()})
	})

	// ---------- 助手会话回看 ----------

	api.Get("/chat/contacts", func(ctx iris.Context) {
		ids, err := chatSvc.ListContacts(ctx.Request().Context())
		if err != nil {
			ctx.StopWithJSON(500, iris.Map{"code": 500, "msg": err.Error()})
			return
		}
		ctx.JSON(iris.Map{"code": 0, "data": ids})
	})

	api.Get("/chat/messages/{id:string}", func(ctx iris.Context) {
		contactID := ctx.Params().GetString("id")
		afterIDStr := ctx.URLParamDefault("after_id", "0")
		limitStr := ctx.URLParamDefault("limit", "50")

		var afterID uint64
		if v, err := strconv.ParseUint(afterIDStr, 10, 64); err == nil {
			afterID = v
		}
		limit, err := strconv.Atoi(limitStr)
		if err != nil {
			limit = 50
		}

		list, err := chatSvc.ListMessages(ctx.Request().Context(), contactID, afterID, limit)
		if err != nil {
			ctx.StopWithJSON(500, iris.Map{"code": 500, "msg": err.Error()})
			return
		}
		ctx.JSON(iris.Map{"code": 0, "data": list})
	})
}

// ---- 辅助结构与函数 ----

type productRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       int64  `json:"price"`
	Unit        string `json:"unit"`
	Stock       int64  `json:"stock"`
	Category    string `json:"category"`
	Image       string `json:"image"`
	Status      int    `json:"status"`
}

func (r *productRequest) applyTo(p *product.Product) error {
	if r.Name == "" {
		return fmt.Errorf("name is required")
	}
	if r.Price < 0 {
		return fmt.Errorf("price must be non-negative")
	}
	if r.Stock < 0 {
		return fmt.Errorf("stock must be non-negative")
	}
	if r.Category != "" && !product.ValidCategory(r.Category) {
		return fmt.Errorf("unknown category: %s", r.Category)
	}
	p.Name = r.Name
	p.Description = r.Description
	p.Price = r.Price
	p.Unit = r.Unit
	p.Stock = r.Stock
	if r.Category != "" {
		p.Category = r.Category
	}
	p.Image = r.Image
	p.Status = r.Status
	return nil
}
