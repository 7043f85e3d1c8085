// Package di provides dependency injection configuration for the Journey server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/journeyreads/journey-server/internal/auth"
	"github.com/journeyreads/journey-server/internal/config"
	"github.com/journeyreads/journey-server/internal/di/providers"
	"github.com/journeyreads/journey-server/internal/logger"
	"github.com/journeyreads/journey-server/internal/service"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideAuthKey)

	// Database layer
	do.Provide(injector, providers.ProvideStore)

	// Metadata layer
	do.Provide(injector, providers.ProvideBookProvider)

	// Auth layer
	do.Provide(injector, providers.ProvideTokenService)

	// Business services
	do.Provide(injector, providers.ProvideBookService)
	do.Provide(injector, providers.ProvideListService)
	do.Provide(injector, providers.ProvideSocialService)
	do.Provide(injector, providers.ProvideProfileService)
	do.Provide(injector, providers.ProvideRankingService)

	// Workers
	do.Provide(injector, providers.ProvidePurgeJob)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services. This triggers lazy initialization in
// dependency order.
func Bootstrap(injector *do.RootScope) error {
	_ = do.MustInvoke[*config.Config](injector)
	_ = do.MustInvoke[*logger.Logger](injector)
	_ = do.MustInvoke[providers.AuthKey](injector)
	_ = do.MustInvoke[*providers.StoreHandle](injector)
	_ = do.MustInvoke[*auth.TokenService](injector)

	// Business services
	_ = do.MustInvoke[*service.BookService](injector)
	_ = do.MustInvoke[*service.ListService](injector)
	_ = do.MustInvoke[*service.SocialService](injector)
	_ = do.MustInvoke[*service.ProfileService](injector)
	_ = do.MustInvoke[*service.RankingService](injector)

	// Workers
	_ = do.MustInvoke[*providers.PurgeJob](injector)

	// Server
	_ = do.MustInvoke[*providers.HTTPServerHandle](injector)

	return nil
}
