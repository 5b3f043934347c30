// app.go
package main

import (
	"log"
	"os"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var db *gorm.DB

// ---------- DB and migrations ----------

func initDB() *gorm.DB {
	dsn := os.Getenv("DATABASE_URL")

	var dialector gorm.Dialector
	if dsn != "" {
		dialector = postgres.Open(dsn)
	} else {
		// local runs without postgres, same default as a fresh checkout
		dialector = sqlite.Open("dev.db")
	}

	gormDB, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	if err := autoMigrate(gormDB); err != nil {
		log.Fatalf("autoMigrate error: %v", err)
	}

	return gormDB
}

func autoMigrate(gormDB *gorm.DB) error {
	return gormDB.AutoMigrate(
		&User{},
		&Course{},
		&Lesson{},
		&Quiz{},
		&Question{},
		&Progress{},
		&QuizAttempt{},
	)
}

// ---------- router ----------

func newRouter(gormDB *gorm.DB) *gin.Engine {
	r := gin.Default()

	// dev CORS: comma-separated origins from FRONTEND_URLS
	frontends := os.Getenv("FRONTEND_URLS")
	if frontends == "" {
		frontends = "http://localhost:5173,http://127.0.0.1:5173"
	}
	var origins []string
	for _, o := range strings.Split(frontends, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	corsCfg := cors.DefaultConfig()
	corsCfg.AllowOrigins = origins
	corsCfg.AllowCredentials = true
	corsCfg.AddAllowHeaders("Authorization")
	r.Use(cors.New(corsCfg))

	secret := os.Getenv("SESSION_SECRET")
	if secret == "" {
		secret = "supersecretkey"
	}
	store := cookie.NewStore([]byte(secret))
	r.Use(sessions.Sessions("growmls_session", store))

	r.Use(resolveIdentity(&sessionIdentity{db: gormDB}))

	registerAuthRoutes(r)
	registerUserRoutes(r)
	registerCourseRoutes(r)
	registerQuizRoutes(r)

	return r
}

// ---------- main ----------

func main() {
	_ = godotenv.Load()

	db = initDB()

	// seed failure degrades to an empty catalog, never a dead process
	if err := seedData(db); err != nil {
		log.Printf("seedData failed: %v", err)
	}

	r := newRouter(db)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8000"
	}
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
