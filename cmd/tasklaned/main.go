package main

import (
	"context"
	"flag"
	"log"
	"path"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/tasklane/tasklane/pkg/auth"
	kcx "github.com/tasklane/tasklane/pkg/configs/extras"
	kcs "github.com/tasklane/tasklane/pkg/configs/server"
	tldb "github.com/tasklane/tasklane/pkg/domain/tasklane/db"
	tlpg "github.com/tasklane/tasklane/pkg/domain/tasklane/db/postgres"
	"github.com/tasklane/tasklane/pkg/utils/echoutil"
	"github.com/tasklane/tasklane/pkg/utils/filewatch"
	kstrings "github.com/tasklane/tasklane/pkg/utils/strings"
	"github.com/tasklane/tasklane/web"

	"github.com/tasklane/tasklane/cmd/tasklaned/handlers"
)

func main() {

	configPath := flag.String("config-path", "", "server config path")
	extraConfigPath := flag.String("extra-apis-config", "", "path to extra api config file")
	loglevel := flag.String("loglevel", "info", "log level. debug|info|warn|error|off")
	pcert := flag.String("cert", "", "certification file for TLS")
	pkey := flag.String("certkey", "", "key of certification file for TLS")
	flag.Parse()

	e := echo.New()
	// leave UI asset and proxied paths as is
	e.Pre(middleware.AddTrailingSlashWithConfig(middleware.TrailingSlashConfig{
		Skipper: func(c echo.Context) bool {
			return !strings.HasPrefix(c.Request().URL.Path, "/api/")
		},
	}))
	e.Validator = echoutil.NewValidator()

	// set log
	echoutil.SetLevel(e, *loglevel)
	e.HTTPErrorHandler = func(err error, ctx echo.Context) {
		e.DefaultHTTPErrorHandler(err, ctx)
		e.Logger.Error(err)
	}
	e.Use(echoutil.LogHandlerFunc)

	// read configfile
	conf, err := kcs.LoadServerConfig(*configPath)
	if err != nil {
		log.Fatalf("can not read configration: %s", err)
	}

	if len(conf.CORSOrigins) != 0 {
		e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins: conf.CORSOrigins,
			AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders: []string{echo.HeaderContentType, echo.HeaderAuthorization},
		}))
	}

	extraApis := kcx.Config{}
	if *extraConfigPath != "" {
		x, err := kcx.Load(*extraConfigPath)
		if err != nil {
			log.Fatalf("can not read configration: %s", err)
		}
		extraApis = x

		ctx, cancel, err := filewatch.UntilModifyContext(context.Background(), *extraConfigPath)
		if err != nil {
			log.Fatalf("can not watch configration: %s", err)
		}
		defer cancel()
		context.AfterFunc(ctx, func() {
			log.Println("extra API config file is updated. quit to restart server.")
			graceful, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()
			if err := e.Shutdown(graceful); err != nil {
				log.Printf("error on shutdown by extra API config update: %s", err)
			}
		})
	}

	// get database accessor
	ctx := context.Background()
	db, err := getDBAccessor(ctx, conf)
	if err != nil {
		log.Fatalf("can not connect to database: %s", err)
	}
	defer db.Close()

	if err := db.Schema().Upgrade(ctx); err != nil {
		log.Fatalf("can not upgrade database schema: %s", err)
	}

	// mutating routes require a token when auth is configured
	guard := []echo.MiddlewareFunc{}
	if conf.Auth != nil {
		issuer := auth.NewIssuer(conf.Auth.Secret, conf.Auth.TokenTTL)
		guard = append(guard, auth.Middleware(issuer))
	}

	// handlers
	{
		taskId := "taskId"
		e.GET(api("tasks"), handlers.FindTaskHandler(db.Tasks()))
		e.POST(api("tasks"), handlers.TaskRegisterHandler(db.Tasks()), guard...)

		e.GET(api("tasks/:taskId/"), handlers.GetTaskHandler(db.Tasks(), taskId))
		e.PUT(api("tasks/:taskId/"), handlers.UpdateTaskHandler(db.Tasks(), taskId), guard...)
		e.DELETE(api("tasks/:taskId/"), handlers.DeleteTaskHandler(db.Tasks(), taskId), guard...)

		e.PUT(api("tasks/:taskId/done"), handlers.TaskDoneHandler(db.Tasks(), taskId, true), guard...)
		e.DELETE(api("tasks/:taskId/done"), handlers.TaskDoneHandler(db.Tasks(), taskId, false), guard...)

		e.PUT(api("tasks/:taskId/labels"), handlers.PutLabelsHandler(db.Tasks(), taskId), guard...)
	}

	log.Println("registred routes:")
	for _, r := range e.Routes() {
		log.Println(r.Method, r.Path)
	}

	// register extra APIs
	for _, ex := range extraApis.Endpoints {
		log.Printf("register extra api: %s => %s", ex.Path, ex.ProxyTo)
		handlers.ExtraAPI(e, ex, echoutil.Proxy)
	}

	// the task board UI, with SPA fallback
	if err := web.Register(e); err != nil {
		log.Fatalf("can not register web UI: %s", err)
	}

	cert, key := *pcert, *pkey
	if cert != "" && key != "" {
		e.Logger.Fatal(e.StartTLS(":"+conf.ServerPort, cert, key))
	} else {
		e.Logger.Fatal(e.Start(":" + conf.ServerPort))
	}
}

func getDBAccessor(ctx context.Context, conf *kcs.ServerConfig) (tldb.TasklaneDatabase, error) {
	options := []tlpg.Option{}
	if conf.SchemaRepository != "" {
		options = append(options, tlpg.WithSchemaRepository(conf.SchemaRepository))
	}
	return tlpg.New(ctx, conf.DBURI, options...)
}

// api makes the full route path for a relative path under /api.
func api(s ...string) string {
	parts := make([]string, len(s)+1)
	parts[0] = "/api"
	copy(parts[1:], s)
	p := path.Join(parts...)
	return kstrings.SupplySuffix(p, "/")
}
