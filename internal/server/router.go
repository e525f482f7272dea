package server

import (
	"errors"
	"time"

	"github.com/kataras/iris/v12"

	"github.com/sanjeetk74691-glitch/Kirana-store/internal/auth"
	"github.com/sanjeetk74691-glitch/Kirana-store/internal/cart"
	"github.com/sanjeetk74691-glitch/Kirana-store/internal/config"
	"github.com/sanjeetk74691-glitch/Kirana-store/internal/infra/mq"
	"github.com/sanjeetk74691-glitch/Kirana-store/internal/infra/redis"
	"github.com/sanjeetk74691-glitch/Kirana-store/internal/middleware"
	"github.com/sanjeetk74691-glitch/Kirana-store/internal/repository/mysql"
	"github.com/sanjeetk74691-glitch/Kirana-store/internal/repository/redisstore"
	"github.com/sanjeetk74691-glitch/Kirana-store/internal/service"
)

// RegisterRoutes 注册前台 HTTP 路由
func RegisterRoutes(app *iris.Application, cfg *config.Config) {
	// 初始化基础设施
	db := mysql.Init(&cfg.MySQL)
	redisClient := redis.Init(&cfg.Redis)
	mqConn := mq.Init(&cfg.RabbitMQ)

	// 静态资源：前端 SPA 的 JS/CSS/图片
	app.HandleDir("/assets", iris.Dir("./web/assets"))
	app.Get("/", func(ctx iris.Context) {
		_ = ctx.ServeFile("./web/index.html")
	})

	// 仓储与服务
	userRepo := mysql.NewUserRepository(db)
	productRepo := mysql.NewProductRepository(db)
	chatRepo := mysql.NewChatRepository(db)
	sessions := redisstore.New(redisClient)

	userSvc := service.NewUserService(userRepo, &cfg.JWT)
	productSvc := service.NewProductService(productRepo)
	cartSvc := service.NewCartService(cart.NewManager(sessions), productRepo, mqConn)
	assistantSvc := service.NewAssistantService(&cfg.Gemini, chatRepo, productSvc)

	ring := auth.NewConsistentHashRing(cfg.Auth.Nodes, cfg.Auth.HashReplicas)
	tokenCache := auth.NewTokenCache(redisClient, ring, time.Duration(cfg.Auth.TokenCacheTTLSeconds)*time.Second)

	api := app.Party("/api")

	// 健康检查
	api.Get("/health", func(ctx iris.Context) {
		ctx.JSON(iris.Map{
			"code": 0,
			"msg":  "ok",
		})
	})

	// 用户注册/登录（简单示例）
	api.Post("/register", func(ctx iris.Context) {
		var req struct {
			Username string `json:"username"`
			Password string `json:"password"`
		}
		if err := ctx.ReadJSON(&req); err != nil {
			ctx.StopWithJSON(400, iris.Map{"code": 400, "msg": err.Error()})
			return
		}
		u, err := userSvc.Register(ctx.Request().Context(), req.Username, req.Password)
		if err != nil {
			ctx.StopWithJSON(500, iris.Map{"code": 500, "msg": err.Error()})
			return
		}
		ctx.JSON(iris.Map{"code": 0, "data": u})
	})

	api.Post("/login", func(ctx iris.Context) {
		var req struct {
			Username string `json:"username"`
			Password string `json:"password"`
		}
		if err := ctx.ReadJSON(&req); err != nil {
			ctx.StopWithJSON(400, iris.Map{"code": 400, "msg": err.Error()})
			return
		}
		token, err := userSvc.Login(ctx.Request().Context(), req.Username, req.Password)
		if err != nil {
			ctx.StopWithJSON(401, iris.Map{"code": 401, "msg": err.Error()})
			return
		}
		ctx.JSON(iris.Map{"code": 0, "data": iris.Map{"token": token}})
	})

	// 需要登录的接口；JWT 解析结果先查 Redis 缓存
	authAPI := api.Party("/", func(ctx iris.Context) {
		token := ctx.GetHeader("Authorization")
		if token == "" {
			ctx.StopWithJSON(401, iris.Map{"code": 401, "msg": "missing token"})
			return
		}
		reqCtx := ctx.Request().Context()
		claims, hit, err := tokenCache.Get(reqCtx, token)
		if err != nil {
			service.GetMonitor().RecordRedisError()
			hit = false
		}
		if !hit {
			claims, err = auth.ParseToken(&cfg.JWT, token)
			if err != nil {
				ctx.StopWithJSON(401, iris.Map{"code": 401, "msg": "invalid token"})
				return
			}
			if err := tokenCache.Set(reqCtx, token, claims); err != nil {
				service.GetMonitor().RecordRedisError()
			}
		}
		ctx.Values().Set("user_id", claims.UserID)
		ctx.Values().Set("username", claims.Username)
		ctx.Next()
	})

	// 商品列表（分类 + 关键字筛选）
	authAPI.Get("/products", func(ctx iris.Context) {
		category := ctx.URLParam("category")
		keyword := ctx.URLParam("q")
		list, err := productSvc.Browse(ctx.Request().Context(), category, keyword)
		if err != nil {
			ctx.StopWithJSON(500, iris.Map{"code": 500, "msg": err.Error()})
			return
		}
		ctx.JSON(iris.Map{"code": 0, "data": list})
	})

	// 商品详情
	authAPI.Get("/products/{id:uint64}", func(ctx iris.Context) {
		pid, _ := ctx.Params().GetUint64("id")
		p, err := productSvc.GetByID(ctx.Request().Context(), int64(pid))
		if err != nil || p == nil {
			ctx.StopWithJSON(404, iris.Map{"code": 404, "msg": "product not found"})
			return
		}
		ctx.JSON(iris.Map{"code": 0, "data": p})
	})

	// ---------- 购物车 ----------

	// 购物车汇总：行项目 + 小计 + 运费 + 合计
	authAPI.Get("/cart", func(ctx iris.Context) {
		userID := ctx.Values().GetInt64Default("user_id", 0)
		lines, subtotal, fee, total := cartSvc.Summary(ctx.Request().Context(), userID)
		ctx.JSON(iris.Map{"code": 0, "data": iris.Map{
			"items":        lines,
			"subtotal":     subtotal,
			"delivery_fee": fee,
			"total":        total,
			"count":        cartSvc.Count(ctx.Request().Context(), userID),
		}})
	})

	// 加购一件
	authAPI.Post("/cart/items", func(ctx iris.Context) {
		userID := ctx.Values().GetInt64Default("user_id", 0)
		var req struct {
			ProductID int64 `json:"product_id"`
		}
		if err := ctx.ReadJSON(&req); err != nil {
			ctx.StopWithJSON(400, iris.Map{"code": 400, "msg": err.Error()})
			return
		}
		if err := cartSvc.Add(ctx.Request().Context(), userID, req.ProductID); err != nil {
			if errors.Is(err, cart.ErrProductNotFound) {
				ctx.StopWithJSON(404, iris.Map{"code": 404, "msg": "商品不存在或已下架"})
				return
			}
			ctx.StopWithJSON(500, iris.Map{"code": 500, "msg": err.Error()})
			return
		}
		ctx.JSON(iris.Map{"code": 0, "msg": "added"})
	})

	// 减购一件（数量为 1 时移除整行）
	authAPI.Post("/cart/items/{id:uint64}/decrement", func(ctx iris.Context) {
		userID := ctx.Values().GetInt64Default("user_id", 0)
		pid, _ := ctx.Params().GetUint64("id")
		cartSvc.Decrement(ctx.Request().Context(), userID, int64(pid))
		ctx.JSON(iris.Map{"code": 0, "msg": "ok"})
	})

	// 购物车页的数量增减
	authAPI.Patch("/cart/items/{id:uint64}", func(ctx iris.Context) {
		userID := ctx.Values().GetInt64Default("user_id", 0)
		pid, _ := ctx.Params().GetUint64("id")
		var req struct {
			Delta int64 `json:"delta"`
		}
		if err := ctx.ReadJSON(&req); err != nil {
			ctx.StopWithJSON(400, iris.Map{"code": 400, "msg": err.Error()})
			return
		}
		cartSvc.UpdateQuantity(ctx.Request().Context(), userID, int64(pid), req.Delta)
		ctx.JSON(iris.Map{"code": 0, "msg": "ok"})
	})

	// 清空购物车
	authAPI.Delete("/cart", func(ctx iris.Context) {
		userID := ctx.Values().GetInt64Default("user_id", 0)
		cartSvc.Clear(ctx.Request().Context(), userID)
		ctx.JSON(iris.Map{"code": 0, "msg": "cleared"})
	})

	// 结算：生成 Pending 订单并清空购物车
	authAPI.Post("/checkout", func(ctx iris.Context) {
		userID := ctx.Values().GetInt64Default("user_id", 0)
		var req struct {
			CustomerName string `json:"customer_name"`
		}
		if err := ctx.ReadJSON(&req); err != nil {
			ctx.StopWithJSON(400, iris.Map{"code": 400, "msg": err.Error()})
			return
		}
		if req.CustomerName == "" {
			req.CustomerName = "Guest User"
		}
		o, err := cartSvc.Checkout(ctx.Request().Context(), userID, req.CustomerName)
		if err != nil {
			switch {
			case errors.Is(err, cart.ErrEmptyCart):
				ctx.StopWithJSON(400, iris.Map{"code": 400, "msg": "购物车是空的"})
			case errors.Is(err, cart.ErrInsufficientStock):
				ctx.StopWithJSON(400, iris.Map{"code": 400, "msg": err.Error()})
			case errors.Is(err, cart.ErrProductNotFound):
				ctx.StopWithJSON(404, iris.Map{"code": 404, "msg": err.Error()})
			default:
				ctx.StopWithJSON(500, iris.Map{"code": 500, "msg": err.Error()})
			}
			return
		}
		ctx.JSON(iris.Map{"code": 0, "data": o})
	})

	// 订单账本，展示层要求最新的排最前
	authAPI.Get("/orders", func(ctx iris.Context) {
		userID := ctx.Values().GetInt64Default("user_id", 0)
		orders := cartSvc.Orders(ctx.Request().Context(), userID)
		for i, j := 0, len(orders)-1; i < j; i, j = i+1, j-1 {
			orders[i], orders[j] = orders[j], orders[i]
		}
		ctx.JSON(iris.Map{"code": 0, "data": orders})
	})

	// ---------- 购物助手 ----------

	assistant := authAPI.Party("/assistant", middleware.AssistantRateLimit())

	// 文本咨询
	assistant.Post("/advice", func(ctx iris.Context) {
		userID := ctx.Values().GetInt64Default("user_id", 0)
		var req struct {
			Query string `json:"query"`
		}
		if err := ctx.ReadJSON(&req); err != nil || req.Query == "" {
			ctx.StopWithJSON(400, iris.Map{"code": 400, "msg": "query is empty"})
			return
		}
		reply := assistantSvc.Advise(ctx.Request().Context(), userID, req.Query)
		ctx.JSON(iris.Map{"code": 0, "data": iris.Map{"reply": reply}})
	})

	// 图片识别，可顺手加购识别出的商品
	assistant.Post("/identify", func(ctx iris.Context) {
		userID := ctx.Values().GetInt64Default("user_id", 0)
		var req struct {
			Image     string `json:"image"` // base64
			MimeType  string `json:"mime_type"`
			AddToCart bool   `json:"add_to_cart"`
		}
		if err := ctx.ReadJSON(&req); err != nil || req.Image == "" {
			ctx.StopWithJSON(400, iris.Map{"code": 400, "msg": "image is empty"})
			return
		}
		reply, matched := assistantSvc.IdentifyProduct(ctx.Request().Context(), userID, req.Image, req.MimeType)
		added := false
		if req.AddToCart && matched != nil {
			if err := cartSvc.Add(ctx.Request().Context(), userID, matched.ID); err == nil {
				added = true
			}
		}
		ctx.JSON(iris.Map{"code": 0, "data": iris.Map{
			"reply":   reply,
			"product": matched,
			"added":   added,
		}})
	})
}
