package httputil

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/render"
)

// allowVerbs answers an OPTIONS request with the verbs the endpoint supports.
func allowVerbs(c *gin.Context, verbs string) {
	c.Header("allow", verbs)
	c.Render(http.StatusNoContent, render.JSON{})
}

func OptionsGet(c *gin.Context)            { allowVerbs(c, "OPTIONS, GET") }
func OptionsPost(c *gin.Context)           { allowVerbs(c, "OPTIONS, POST") }
func OptionsDelete(c *gin.Context)         { allowVerbs(c, "OPTIONS, DELETE") }
func OptionsGetPost(c *gin.Context)        { allowVerbs(c, "OPTIONS, GET, POST") }
func OptionsGetDelete(c *gin.Context)      { allowVerbs(c, "OPTIONS, GET, DELETE") }
func OptionsPostDelete(c *gin.Context)     { allowVerbs(c, "OPTIONS, POST, DELETE") }
func OptionsGetPatchDelete(c *gin.Context) { allowVerbs(c, "OPTIONS, GET, PATCH, DELETE") }
