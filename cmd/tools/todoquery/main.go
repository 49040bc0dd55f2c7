package main

import (
	"context"
	"encoding/json"
	"flag"
	"net/url"
	"os"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"

	"github.com/zhouzirui/todo-api/backend/internal/config"
	"github.com/zhouzirui/todo-api/backend/internal/logging"
	"github.com/zhouzirui/todo-api/backend/internal/model/todo"
	todoservice "github.com/zhouzirui/todo-api/backend/internal/service/todo"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Debug("无法加载 .env，改用系统环境变量", "err", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("配置加载失败", "err", err)
	}

	mode := flag.String("mode", "query", "运行模式: validate, get 或 query")
	dataFile := flag.String("data", cfg.Data.File, "todo 数据文件路径")
	id := flag.String("id", "", "get 模式下要查找的 _id")
	rawQuery := flag.String("q", "", `query 模式下的查询串，例如 "owner=Blanche&limit=3"`)
	pretty := flag.Bool("pretty", true, "缩进输出 JSON")
	flag.Parse()

	logger := logging.New(logging.Options{Level: cfg.Log.Level, Format: cfg.Log.Format, Prefix: "todoquery"})

	db, err := todo.Load(*dataFile)
	if err != nil {
		logger.Fatal("数据文件无效", "err", err)
	}
	logger.Info("数据文件已加载", "path", *dataFile, "todos", db.Count())

	svc := todoservice.NewService(db, nil, nil)
	ctx := context.Background()

	switch *mode {
	case "validate":
		printJSON(logger, map[string]any{"path": *dataFile, "todos": db.Count(), "valid": true}, *pretty)
	case "get":
		runGet(ctx, logger, svc, *id, *pretty)
	case "query":
		runQuery(ctx, logger, svc, *rawQuery, *pretty)
	default:
		flag.Usage()
		logger.Fatal("请通过 -mode=validate、-mode=get 或 -mode=query 指定运行模式")
	}
}

func runGet(ctx context.Context, logger *log.Logger, svc *todoservice.Service, id string, pretty bool) {
	if id == "" {
		logger.Fatal("get 模式需要通过 -id 指定 _id")
	}

	item, err := svc.Get(ctx, id)
	if err != nil {
		logger.Fatal("No todo with id "+id+" was found.", "err", err)
	}
	printJSON(logger, item, pretty)
}

func runQuery(ctx context.Context, logger *log.Logger, svc *todoservice.Service, rawQuery string, pretty bool) {
	values, err := url.ParseQuery(rawQuery)
	if err != nil {
		logger.Fatal("查询串解析失败", "q", rawQuery, "err", err)
	}

	items, err := svc.List(ctx, values)
	if err != nil {
		logger.Fatal("查询失败", "q", rawQuery, "err", err)
	}
	logger.Debug("查询完成", "q", rawQuery, "results", len(items))
	printJSON(logger, items, pretty)
}

func printJSON(logger *log.Logger, payload any, pretty bool) {
	enc := json.NewEncoder(os.Stdout)
	if pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(payload); err != nil {
		logger.Fatal("输出 JSON 失败", "err", err)
	}
}
