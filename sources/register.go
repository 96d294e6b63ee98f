package sources

import (
	"github.com/ZeshiKing/sydney-property-ai-Arthur/config"
	"github.com/ZeshiKing/sydney-property-ai-Arthur/fetcher"
	"github.com/ZeshiKing/sydney-property-ai-Arthur/utils"
)

// RegisterAll wires the parser for every configured source into the
// registry. Sources without a parser are logged and skipped; the fetcher
// still downloads their pages but yields zero properties for them.
func RegisterAll(reg *fetcher.Registry, srcs []config.SourceConfig, logger *utils.Logger) {
	for _, src := range srcs {
		switch src.Name {
		case "realestate.com.au":
			reg.Register(src.Name, NewRealestateParser(src.BaseURL, logger))
		case "domain.com.au":
			reg.Register(src.Name, NewDomainParser(src.BaseURL, logger))
		case "rent.com.au":
			reg.Register(src.Name, NewRentParser(src.BaseURL, logger))
		default:
			logger.Warn("[sources] No parser available for source %q", src.Name)
		}
	}
}
