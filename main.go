package main

import (
	"log"
	"strings"
	"time"

	"courseware/auth"
	"courseware/config"
	"courseware/db"
	"courseware/handlers"
	"courseware/models"
	"courseware/processing"
	"courseware/recognition"
	"courseware/storage"
	"courseware/utils"
	"courseware/web"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-contrib/sessions"
	gormsessions "github.com/gin-contrib/sessions/gorm"
	"github.com/gin-gonic/autotls"
	"github.com/gin-gonic/gin"
)

const (
	sessionStoreKey       = "this is a long key" // TODO: convert to env variable
	sessionCookieName     = "token"
	sessionExpirationTime = 365 * 86400 // 1 year
)

func main() {
	db.Init()
	models.Init()
	storage.Init()
	if err := recognition.Init(models.NewTemplateStore()); err != nil {
		log.Fatalf("Face recognition init failed: %v", err)
	}
	defer recognition.Shutdown()
	processing.Init()
	processing.StartProcessing()

	router := gin.Default()
	_ = router.SetTrustedProxies([]string{})
	if config.DEBUG_MODE {
		router.Use(utils.ErrorLogMiddleware)
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"PUT", "POST", "DELETE"},
		AllowHeaders:     []string{"Origin"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           30 * 24 * time.Hour,
	}))

	// HTML templates
	router.LoadHTMLGlob("templates/*.tmpl")

	cookieStore := gormsessions.NewStore(db.Instance, true, []byte(sessionStoreKey))
	cookieStore.Options(sessions.Options{MaxAge: sessionExpirationTime})
	router.Use(sessions.Sessions(sessionCookieName, cookieStore))
	if !config.DEBUG_MODE {
		router.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/course/illustration", "/camera/socket"})))
	}
	router.Use((&utils.CacheRouter{CacheTime: utils.CacheNoCache}).Handler()) // No cache by default, individual end-points can override that
	// Custom Auth Router
	authRouter := &auth.Router{Base: router}
	// User handlers
	router.POST("/user/login", handlers.UserLogin)
	router.POST("/user/logout", handlers.UserLogout)
	router.GET("/user/status", handlers.UserGetStatus)
	authRouter.POST("/user/create", handlers.UserCreate, models.PermissionAdmin)
	authRouter.GET("/user/list", handlers.UserList, models.PermissionAdmin)
	// Face recognition handlers
	router.POST("/face/login", handlers.FaceLogin)
	authRouter.POST("/face/enroll", handlers.FaceEnroll)
	authRouter.GET("/face/status", handlers.FaceStatus)
	// Live camera preview
	router.GET("/camera/socket", handlers.CameraSocket)
	// Course handlers
	authRouter.GET("/course/list", handlers.CourseListHandler)
	authRouter.GET("/course/get/:id", handlers.CourseGet)
	authRouter.GET("/course/illustration/:id", handlers.CourseIllustration)
	authRouter.POST("/course/save", handlers.CourseSave, models.PermissionCourseEdit)
	authRouter.DELETE("/course/delete/:id", handlers.CourseDelete, models.PermissionCourseEdit)
	// Quiz handlers
	authRouter.GET("/quiz/list", handlers.QuizList)
	authRouter.GET("/quiz/get/:id", handlers.QuizGet)
	authRouter.POST("/quiz/save", handlers.QuizSave, models.PermissionCourseEdit)
	authRouter.POST("/quiz/submit/:id", handlers.QuizSubmit)

	/*
	 *	Web interface
	 */
	router.GET("/", web.LoginView)
	router.GET("/courses", web.CoursesView)
	router.GET("/w/course/:id/", web.CourseView)
	router.GET("/w/quiz/:id/", web.QuizView)
	// Misc
	router.GET("/robots.txt", web.DisallowRobots)

	var err error
	if config.TLS_DOMAINS != "" {
		err = autotls.Run(router, strings.Split(config.TLS_DOMAINS, ",")...)
	} else {
		err = router.Run(config.BIND_ADDRESS)
	}
	log.Fatalf("Server stopped: %v", err)
}
