package contextkeys

type contextKey string

// ActorKey — аутентифицированный пользователь (роль и команды),
// положенный в контекст auth-мидлвэром.
const ActorKey contextKey = "Actor"
