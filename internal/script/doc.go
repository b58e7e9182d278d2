// Package script runs Lua files that define editor commands.
//
// A script gets a sandboxed gopher-lua state with the base, table, string
// and math libraries. File, process and module loading functions are
// removed; require only resolves the builtin libraries and the mirror
// module.
//
//	local mirror = require("mirror")
//
//	mirror.defineCommand("upcaseLine", function(cm)
//	    local c = cm:getCursor()
//	    local text = cm:getLine(c.line)
//	    cm:setLine(c.line, string.upper(text))
//	end)
//
// Commands land in the session command table, so key maps and
// ExecCommand reach them like builtins. Each call receives an editor table
// bound to the editor the command runs on; its functions accept both the
// cm:fn() and cm.fn() call styles.
//
// A State is used from the goroutine that owns the session.
package script
