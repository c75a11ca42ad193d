package logsvc

import (
	"log"
	"strconv"
	"strings"

	"github.com/rollbar/rollbar-go"
	"github.com/rollbar/rollbar-go/errors"

	"github.com/trezcool/campus/core"
	"github.com/trezcool/campus/core/user"
)

// RollbarLogger prints every entry to std and reports it to Rollbar when enabled.
// Items are tagged with the component named by the std prefix ("API : " reports as "api").
type RollbarLogger struct {
	std       *log.Logger
	component string
}

var _ core.Logger = (*RollbarLogger)(nil)

func NewRollbarLogger(std *log.Logger, conf *core.Config) *RollbarLogger {
	rollbar.SetToken(conf.RollbarToken)
	rollbar.SetEnvironment(conf.Env)
	rollbar.SetServerHost(conf.Server.Host)
	rollbar.SetCodeVersion(conf.Build)
	rollbar.SetStackTracer(errors.StackTracer)
	return &RollbarLogger{std: std, component: componentName(std.Prefix())}
}

func componentName(prefix string) string {
	return strings.ToLower(strings.TrimSpace(strings.TrimRight(prefix, ": ")))
}

func (l RollbarLogger) Enable(enabled bool) {
	rollbar.SetEnabled(enabled)
}

// item builds the Rollbar arguments of an entry.
// args may hold an error, a map[string]interface{} of extras and the user.User of the request;
// only the first signed-in user is reported, anonymous ones (ID 0) clear the person.
func (l RollbarLogger) item(msg string, args []interface{}) []interface{} {
	extras := map[string]interface{}{}
	if l.component != "" {
		extras["component"] = l.component
	}
	items := []interface{}{msg}

	var usrSet bool
	for _, arg := range args {
		switch v := arg.(type) {
		case user.User:
			if !usrSet && v.ID != 0 {
				rollbar.SetPerson(strconv.FormatInt(v.ID, 10), v.Name, v.Email)
				extras["role"] = v.Role
				usrSet = true
			}
		case map[string]interface{}:
			for k, val := range v {
				extras[k] = val
			}
		default:
			items = append(items, arg)
		}
	}
	if !usrSet {
		rollbar.ClearPerson()
	}
	return append(items, extras)
}

func (l RollbarLogger) log(level, msg string, args []interface{}) {
	rollbar.Log(level, l.item(msg, args)...)
	l.std.Println(msg)
	for _, arg := range args {
		if usr, ok := arg.(user.User); ok && usr.ID == 0 {
			continue
		}
		l.std.Printf("%+v\n", arg)
	}
}

func (l RollbarLogger) Debug(msg string, args ...interface{}) { l.log(rollbar.DEBUG, msg, args) }
func (l RollbarLogger) Info(msg string, args ...interface{})  { l.log(rollbar.INFO, msg, args) }
func (l RollbarLogger) Warn(msg string, args ...interface{})  { l.log(rollbar.WARN, msg, args) }
func (l RollbarLogger) Error(msg string, args ...interface{}) { l.log(rollbar.ERR, msg, args) }

func (l RollbarLogger) Fatal(msg string, args ...interface{}) {
	l.log(rollbar.CRIT, msg, args)
	rollbar.Wait()
	l.std.Fatal(msg)
}
