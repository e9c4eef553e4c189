package scaffold

// TailwindImport is the entire stylesheet entry of the generated frontend.
const TailwindImport = `@import "tailwindcss";`

// BackendDirs is created under <root>/backend.
var BackendDirs = DirectoryPlan{
	"src",
	"src/config",
	"src/model",
	"src/data",
	"src/routes",
	"src/middleware",
	"src/controller",
}

// BackendTemplates are written under <root>/backend once its manifest exists.
var BackendTemplates = []FileTemplate{
	{Path: "src/index.js", Source: "backend/index.js.tmpl"},
}

// ViteConfigJS and ViteConfigTS are the config names create-vite may emit.
const (
	ViteConfigJS = "vite.config.js"
	ViteConfigTS = "vite.config.ts"
)

// FrontendTemplates replace files produced by create-vite, so every entry
// is a forced overwrite.
var FrontendTemplates = []FileTemplate{
	{Path: ViteConfigJS, Source: "frontend/vite.config.js.tmpl", Overwrite: true},
	{Path: "src/index.css", Content: TailwindImport, Overwrite: true},
	{Path: "src/main.jsx", Source: "frontend/main.jsx.tmpl", Overwrite: true},
	{Path: "src/app.jsx", Source: "frontend/app.jsx.tmpl", Overwrite: true},
}

// FrontendDirs is created under <root>/frontend after the templates.
var FrontendDirs = DirectoryPlan{
	"src/components",
	"src/api",
	"src/pages",
}
