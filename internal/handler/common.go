package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"pg-bridge-api/internal/constant"
)

// extraData collects extra_data[key]=value form fields. JSON bodies bind
// extra_data directly.
func extraData(c *gin.Context) map[string]interface{} {
	if c.ContentType() != binding.MIMEPOSTForm && c.ContentType() != binding.MIMEMultipartPOSTForm {
		return nil
	}
	form := c.PostFormMap("extra_data")
	if len(form) == 0 {
		return nil
	}
	out := make(map[string]interface{}, len(form))
	for k, v := range form {
		out[k] = v
	}
	return out
}

// redirect sends the browser on; an empty location means the order has no
// return url to go back to.
func redirect(c *gin.Context, location string) {
	if strings.TrimSpace(location) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": constant.ErrorMessages[constant.CodeInvalidRequest].EN})
		return
	}
	c.Redirect(http.StatusFound, location)
}

func isNotifyFailure(err error) bool {
	switch constant.CodeOf(err) {
	case constant.CodeNotifyRejected, constant.CodeNotifyTransportError:
		return true
	}
	return false
}
