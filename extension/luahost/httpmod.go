package luahost

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/yomikata-app/yomikata/network"
)

// registerTLSClient injects the "http_tls" global module into a Lua state.
// Requests issued through it carry a browser TLS fingerprint, which several
// scraped sites require to get past their anti-bot front.
//
// Lua API:
//
//	http_tls.get(url)              → body string
//	http_tls.get(url, headers_tbl) → body string with custom headers
//	http_tls.request(options_tbl)  → {status, body}
func registerTLSClient(L *lua.LState) {
	mod := L.NewTable()
	L.SetField(mod, "get", L.NewFunction(httpTLSGet))
	L.SetField(mod, "request", L.NewFunction(httpTLSRequest))
	L.SetGlobal("http_tls", mod)
}

func headersFromTable(table *lua.LTable) map[string]string {
	headers := make(map[string]string)
	if table == nil {
		return headers
	}
	table.ForEach(func(k, v lua.LValue) {
		headers[k.String()] = v.String()
	})
	return headers
}

// httpTLSGet implements http_tls.get(url [, headers]).
func httpTLSGet(L *lua.LState) int {
	url := L.CheckString(1)
	headers := headersFromTable(L.OptTable(2, nil))

	body, _, err := network.TLSRequest("GET", url, headers, "")
	if err != nil {
		L.RaiseError("http_tls.get failed: %s", err.Error())
		return 0
	}

	L.Push(lua.LString(body))
	return 1
}

// httpTLSRequest implements http_tls.request(options).
func httpTLSRequest(L *lua.LState) int {
	opts := L.CheckTable(1)

	url := getString(opts, "url")
	if url == "" {
		L.RaiseError("http_tls.request: url is required")
		return 0
	}

	method := getString(opts, "method")
	if method == "" {
		method = "GET"
	}

	var headers map[string]string
	if tbl, ok := opts.RawGetString("headers").(*lua.LTable); ok {
		headers = headersFromTable(tbl)
	}

	body, status, err := network.TLSRequest(method, url, headers, getString(opts, "body"))
	if err != nil {
		L.RaiseError("http_tls.request failed: %s", err.Error())
		return 0
	}

	result := L.NewTable()
	result.RawSetString("status", lua.LNumber(status))
	result.RawSetString("body", lua.LString(body))
	L.Push(result)
	return 1
}
