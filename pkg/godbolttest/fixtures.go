package godbolttest

// Fixture records served by a new [Server]. Languages are c, c++ and python
// in that order; c deliberately has no defaultCompiler.
const (
	LanguagesJSON = `[
	{"id": "c", "name": "C", "extensions": [".c", ".h"], "monaco": "nc"},
	{"id": "c++", "name": "C++", "extensions": [".cpp", ".cxx", ".h", ".hpp"], "monaco": "cppp", "defaultCompiler": "g132"},
	{"id": "python", "name": "Python", "extensions": [".py"], "monaco": "python", "defaultCompiler": "python312"}
]`

	CCompilersJSON = `[
	{"id": "cg132", "name": "x86-64 gcc 13.2", "lang": "c", "alias": []},
	{"id": "cclang1701", "name": "x86-64 clang 17.0.1", "lang": "c", "alias": ["cclang-latest"]}
]`

	CppCompilersJSON = `[
	{"id": "g132", "name": "x86-64 gcc 13.2", "lang": "c++", "alias": ["g++13"]},
	{"id": "g102", "name": "x86-64 gcc 10.2", "lang": "c++", "alias": []},
	{"id": "clang1701", "name": "x86-64 clang 17.0.1", "lang": "c++", "alias": ["clang-latest"]}
]`

	PythonCompilersJSON = `[
	{"id": "python312", "name": "Python 3.12", "lang": "python", "alias": []},
	{"id": "python311", "name": "Python 3.11", "lang": "python", "alias": []}
]`

	CppLibrariesJSON = `[
	{
		"id": "fmt",
		"name": "{fmt}",
		"url": "https://fmt.dev",
		"versions": [
			{"id": "1000", "version": "10.0.0", "alias": [], "dependencies": [], "path": ["/opt/compiler-explorer/libs/fmt/10.0.0/include"], "libpath": [], "options": [], "staticliblink": ["fmtd"]},
			{"id": "trunk", "version": "trunk", "alias": [], "dependencies": [], "path": [], "libpath": [], "options": [], "staticliblink": []}
		]
	},
	{
		"id": "boost",
		"name": "Boost",
		"url": "https://www.boost.org",
		"versions": [
			{"id": "183", "version": "1.83.0", "alias": [], "dependencies": [], "path": [], "libpath": [], "options": [], "staticliblink": []}
		]
	}
]`

	// ExecuteJSON is the default response to POST /compiler/{id}/compile.
	ExecuteJSON = `{
	"code": 0,
	"okToCache": true,
	"stdout": [],
	"stderr": [],
	"execResult": {
		"code": 0,
		"okToCache": true,
		"didExecute": true,
		"buildResult": {"code": 0, "stdout": [], "stderr": []},
		"execTime": "12",
		"timedOut": false,
		"stdout": [{"text": "a"}, {"text": "b"}],
		"stderr": []
	}
}`
)
