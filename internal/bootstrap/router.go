package bootstrap

import (
	"context"
	"time"

	fbauth "firebase.google.com/go/v4/auth"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	httpapi "github.com/global-courier-network/gcn-backend/internal/api/http"
	apimiddleware "github.com/global-courier-network/gcn-backend/internal/api/http/middleware"
	"github.com/global-courier-network/gcn-backend/internal/auth"
	authmiddleware "github.com/global-courier-network/gcn-backend/internal/auth/middleware"
	"github.com/global-courier-network/gcn-backend/internal/events"

	itemshttp "github.com/global-courier-network/gcn-backend/internal/items/http"
	itemsrepo "github.com/global-courier-network/gcn-backend/internal/items/repository"
	itemsservice "github.com/global-courier-network/gcn-backend/internal/items/service"

	msghttp "github.com/global-courier-network/gcn-backend/internal/messaging/http"
	msgrepo "github.com/global-courier-network/gcn-backend/internal/messaging/repository"
	msgservice "github.com/global-courier-network/gcn-backend/internal/messaging/service"

	usershttp "github.com/global-courier-network/gcn-backend/internal/users/http"
	usersrepo "github.com/global-courier-network/gcn-backend/internal/users/repository"
	usersservice "github.com/global-courier-network/gcn-backend/internal/users/service"
)

type RouterDeps struct {
	ServiceName string
	Version     string
	DB          *pgxpool.Pool
	Redis       *redis.Client
	AuthClient  *fbauth.Client
	AuthMode    string
	CORSOrigins []string
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	r := gin.Default()

	if len(dep.CORSOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     dep.CORSOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-Id"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, dep.DB, dep.Redis)
	healthHandler.RegisterRoutes(r)

	api := r.Group("/api/v1")
	api.Use(apimiddleware.RequestIDMiddleware())

	if dep.AuthMode == "firebase" && dep.AuthClient != nil {
		api.Use(authmiddleware.FirebaseAuthMiddleware(dep.AuthClient))
	} else {
		api.Use(auth.HeaderIdentity())
	}

	publisher := events.NewPublisher(dep.Redis)

	threadRepo := msgrepo.NewThreadRepository(dep.DB)
	messageRepo := msgrepo.NewMessageRepository(dep.DB)
	messagingService := msgservice.NewMessagingService(threadRepo, messageRepo, publisher)

	profileRepo := usersrepo.NewProfileRepository(dep.DB)
	profileService := usersservice.NewProfileService(profileRepo)

	itemRepo := itemsrepo.NewItemRepository(dep.DB)
	lifecycleService := itemsservice.NewLifecycleService(
		itemRepo,
		conversationAdapter{messagingService},
		profileRepo,
		publisher,
	)

	itemsHandler := itemshttp.New(lifecycleService, dep.Redis)
	itemsHandler.Register(api)
	itemsHandler.RegisterStats(api)

	msgHandler := msghttp.New(messagingService, publisher)
	msgHandler.Register(api)

	usersHandler := usershttp.New(profileService, lifecycleService)
	usersHandler.Register(api)

	return r
}

// conversationAdapter narrows the messaging service to the thread-id view
// the lifecycle service needs.
type conversationAdapter struct {
	svc *msgservice.MessagingService
}

func (a conversationAdapter) Bootstrap(ctx context.Context, ownerUID, ownerEmail, acceptorUID, acceptorEmail string) (string, error) {
	t, err := a.svc.Bootstrap(ctx, ownerUID, ownerEmail, acceptorUID, acceptorEmail)
	if t == nil {
		return "", err
	}
	return t.ID, err
}

func (a conversationAdapter) EnsureConversation(ctx context.Context, ownerUID, ownerEmail, acceptorUID, acceptorEmail string, acceptedAt time.Time) (string, error) {
	t, err := a.svc.EnsureConversation(ctx, ownerUID, ownerEmail, acceptorUID, acceptorEmail, acceptedAt)
	if t == nil {
		return "", err
	}
	return t.ID, err
}
