package capability

import (
	"context"
	"strings"
	"sync"

	"studybuddy-be/internal/pkg/logger"
)

type cachedSession struct {
	session Session
	key     string
}

// sessionCache owns the live sessions of a Manager: one slot per kind plus
// a separate map for translator sessions keyed by language pair. The pack
// builder's upgrade goroutines hit the same kinds concurrently, so slot
// access is serialized.
type sessionCache struct {
	registry *Registry
	log      logger.ILogger

	mu          sync.Mutex
	sessions    map[Kind]*cachedSession
	translators map[string]TranslatorSession
}

func newSessionCache(registry *Registry, log logger.ILogger) *sessionCache {
	return &sessionCache{
		registry:    registry,
		log:         log,
		sessions:    make(map[Kind]*cachedSession),
		translators: make(map[string]TranslatorSession),
	}
}

// ensureSession returns a session for kind configured per opts, reusing the
// cached session when the configuration fingerprint is unchanged. Any
// failure along the way (no provider, probe error, create error) degrades
// to nil: absence of a capability is the expected common case, not an error.
func (c *sessionCache) ensureSession(ctx context.Context, kind Kind, opts CreateOptions) Session {
	availOpts := opts.availability()
	key := cacheKey(kind, availOpts)

	c.mu.Lock()
	defer c.mu.Unlock()

	if cached, ok := c.sessions[kind]; ok && cached.session != nil && cached.key == key {
		return cached.session
	}

	c.destroySession(kind)

	session := c.createSession(ctx, kind, opts, availOpts)
	if session == nil {
		return nil
	}

	c.sessions[kind] = &cachedSession{session: session, key: key}
	return session
}

// createSession resolves, probes and creates without touching the cache.
// Used directly for throwaway sessions (multimodal extraction, translators).
func (c *sessionCache) createSession(ctx context.Context, kind Kind, opts CreateOptions, availOpts AvailabilityOptions) Session {
	provider := c.registry.Resolve(kind)
	if provider == nil {
		c.warn(kind, "no provider registered", nil)
		return nil
	}

	state, err := provider.Availability(ctx, availOpts)
	if err != nil {
		c.warn(kind, "availability probe failed", err)
		return nil
	}
	if !state.Usable() {
		return nil
	}

	session, err := provider.Create(ctx, opts)
	if err != nil {
		c.warn(kind, "session creation failed", err)
		return nil
	}
	return session
}

// destroySession tears down the cached session for kind. Callers hold
// c.mu. Destruction is best effort; a panicking Destroy must not take
// the manager down with it.
func (c *sessionCache) destroySession(kind Kind) {
	cached, ok := c.sessions[kind]
	delete(c.sessions, kind)
	if !ok || cached.session == nil {
		return
	}

	defer func() {
		if r := recover(); r != nil {
			c.log.Warn("capability", "session destroy panicked", map[string]interface{}{
				"kind":  string(kind),
				"panic": r,
			})
		}
	}()
	cached.session.Destroy()
}

// ensureTranslator caches translator sessions per language pair. A failed
// creation is cached as nil so repeated calls for a dead pair do not
// re-probe on every translation.
func (c *sessionCache) ensureTranslator(ctx context.Context, source, target string) TranslatorSession {
	key := translatorKey(source, target)

	c.mu.Lock()
	defer c.mu.Unlock()

	if session, ok := c.translators[key]; ok {
		return session
	}

	opts := CreateOptions{
		SourceLanguage: source,
		TargetLanguage: target,
	}

	var translator TranslatorSession
	if session := c.createSession(ctx, KindTranslator, opts, opts.availability()); session != nil {
		translator, _ = session.(TranslatorSession)
		if translator == nil {
			session.Destroy()
		}
	}
	c.translators[key] = translator
	return translator
}

func (c *sessionCache) destroyAll() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for kind := range c.sessions {
		c.destroySession(kind)
	}
	for key, translator := range c.translators {
		if translator != nil {
			translator.Destroy()
		}
		delete(c.translators, key)
	}
}

func (c *sessionCache) warn(kind Kind, message string, err error) {
	details := map[string]interface{}{"kind": string(kind)}
	if err != nil {
		details["error"] = err.Error()
	}
	c.log.Warn("capability", message, details)
}

func translatorKey(source, target string) string {
	if source == "" {
		source = "auto"
	}
	return strings.ToLower(source) + "->" + strings.ToLower(target)
}
