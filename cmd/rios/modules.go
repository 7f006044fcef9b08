package main

// Compiled-in modules. Each registers itself with the core registry.
import (
	_ "github.com/riosspedro/rios/internal/gateway"
	_ "github.com/riosspedro/rios/modules/memory/sqlite"
	_ "github.com/riosspedro/rios/modules/provider/openai"
)
