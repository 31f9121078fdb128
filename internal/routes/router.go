package routes

import (
	"taskboard/internal/controller"
	"taskboard/internal/middleware"

	"github.com/gin-gonic/gin"
)

// Router mounts the task resource under prefix+"/tasks" (prefix may be "").
func Router(tasks *controller.TaskController, prefix string) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestID(), middleware.AccessLog())

	// Health for load balancers and K8s probes
	router.GET("/health", tasks.Health)
	router.GET("/ready", tasks.Ready)

	api := router.Group(prefix + "/tasks")
	{
		api.GET("", tasks.ListTasks)
		api.GET("/:id", tasks.GetTask)
		api.POST("", tasks.CreateTask)
		api.PUT("/:id", tasks.UpdateTask)
		api.DELETE("/:id", tasks.DeleteTask)
	}

	return router
}
