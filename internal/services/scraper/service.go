// Package scraper bridges the MCP tool surface to a legacy RDMS (ZenTao
// family) installation: it keeps one authenticated session alive, fetches
// server-rendered pages, and hands the HTML to the extraction engines.
package scraper

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/rdms-mcp/internal/common"
	"github.com/ternarybob/rdms-mcp/internal/models"
	"github.com/ternarybob/rdms-mcp/internal/services/extract"
)

const (
	loginPath        = "/index.php?m=user&f=login"
	bugViewPath      = "/index.php?m=bug&f=view&bugID="
	marketViewPath   = "/index.php?m=bugmarket&f=view&bugID="
	myBugsPath       = "/index.php?m=my&f=work&mode=bug&type=assignedTo"
	myMarketBugsPath = "/index.php?m=bugmarket&f=browse&productid=0&branch=0&browseType=assigntome"

	myBugsLabel       = "我的BUG"
	myMarketBugsLabel = "市场Bug"
)

// Service implements the exposed operations over one RDMS session.
// Operations are issued sequentially by the MCP host; the login mutex makes
// the one shared mutation path (authentication) single-flight anyway.
type Service struct {
	client  *Client
	session *Session
	logger  arbor.ILogger

	bugSpec      *extract.RecordSpec
	marketSpec   *extract.RecordSpec
	myWorkLayout *extract.ListLayout
	marketLayout *extract.ListLayout

	defaultListLimit int
	imagesDir        string

	loginMu sync.Mutex
}

// NewService wires a scraper service from configuration. Credentials from the
// environment/config enable lazy auto-login; without them the service stays
// usable through the explicit login tool.
func NewService(cfg *common.Config, logger arbor.ILogger) *Service {
	client := NewClient(
		WithTimeout(cfg.RDMS.Timeout()),
		WithRateLimit(cfg.RDMS.RateLimit),
		WithUserAgent(cfg.RDMS.UserAgent),
		WithLogger(logger),
	)

	session := NewSession()
	if cfg.RDMS.BaseURL != "" {
		session.Configure(strings.TrimRight(cfg.RDMS.BaseURL, "/"), cfg.RDMS.Username, cfg.RDMS.Password)
	}

	return &Service{
		client:           client,
		session:          session,
		logger:           logger,
		bugSpec:          extract.NewBugSpec(cfg.RDMS.SiteNames),
		marketSpec:       extract.NewMarketBugSpec(cfg.RDMS.SiteNames),
		myWorkLayout:     extract.NewMyWorkLayout(),
		marketLayout:     extract.NewMarketBrowseLayout(),
		defaultListLimit: cfg.RDMS.DefaultListLimit,
		imagesDir:        cfg.Images.Dir,
	}
}

// Login authenticates against the given installation and records the
// credentials for later auto re-login.
func (s *Service) Login(ctx context.Context, baseURL, username, password string) (string, error) {
	s.loginMu.Lock()
	defer s.loginMu.Unlock()
	s.session.Configure(strings.TrimRight(baseURL, "/"), username, password)
	return s.doLogin(ctx)
}

// doLogin runs the login handshake. Caller holds loginMu.
func (s *Service) doLogin(ctx context.Context) (string, error) {
	base := s.session.BaseURL()
	loginURL := base + loginPath
	username, password := s.session.Credentials()

	// The login form carries an anti-forgery token that must be echoed back.
	page, err := s.client.Get(ctx, loginURL, s.session.CookieMap(), nil)
	if err != nil {
		s.session.Invalidate()
		return "", err
	}
	s.session.AbsorbCookies(page.Cookies)

	token := ""
	if doc, docErr := extract.NewDocument(page.Text()); docErr == nil {
		token = doc.Find(`input[name="token"]`).AttrOr("value", "")
	}

	form := url.Values{
		"account":   {username},
		"password":  {password},
		"keepLogin": {"1"},
	}
	if token != "" {
		form.Set("token", token)
	}

	resp, err := s.client.PostForm(ctx, loginURL, form, s.session.CookieMap(), map[string]string{
		"Referer": loginURL,
	})
	if err != nil {
		s.session.Invalidate()
		return "", err
	}
	s.session.AbsorbCookies(resp.Cookies)

	if err := classifyLogin(resp); err != nil {
		s.session.Invalidate()
		s.logger.Warn().Err(err).Str("base_url", base).Msg("Login failed")
		return "", err
	}

	s.session.MarkAuthenticated()
	s.logger.Info().Str("base_url", base).Str("account", username).Msg("Logged in to RDMS")
	return fmt.Sprintf("Successfully logged in to RDMS system at %s", base), nil
}

// classifyLogin orders the success and failure heuristics: redirect status,
// then the client-side navigation stub, then the short-body stub; failures
// are recognized by known phrases, anything else is unclassified.
func classifyLogin(resp *Response) error {
	body := resp.Text()
	failed := strings.Contains(body, loginFailPhrase)

	if resp.IsRedirect() {
		return nil
	}
	if strings.Contains(body, loginSuccessScript) && !failed {
		return nil
	}
	if len(resp.Body) < loginShortBodyMax && !failed && !strings.Contains(body, captchaPhrase) {
		return nil
	}
	if failed {
		return ErrInvalidCredentials
	}
	if strings.Contains(body, captchaPhrase) {
		return ErrCaptchaRequired
	}
	return ErrUnknownLoginFailure
}

// ensureAuthenticated performs the single automatic login attempt when
// credentials are configured. Concurrent callers collapse into one login.
func (s *Service) ensureAuthenticated(ctx context.Context) error {
	s.loginMu.Lock()
	defer s.loginMu.Unlock()
	if s.session.IsAuthenticated() {
		return nil
	}
	if !s.session.HasCredentials() {
		return ErrNotAuthenticated
	}
	_, err := s.doLogin(ctx)
	return err
}

// fetchPage fetches an authenticated page, retrying exactly once through
// re-login when the session has expired under us.
func (s *Service) fetchPage(ctx context.Context, pageURL string) (string, error) {
	if err := s.ensureAuthenticated(ctx); err != nil {
		return "", err
	}

	body, expired, err := s.fetchOnce(ctx, pageURL)
	if err != nil {
		return "", err
	}
	if !expired {
		return body, nil
	}

	s.session.Invalidate()
	s.logger.Warn().Str("url", pageURL).Msg("Session expired, re-authenticating")
	if err := s.ensureAuthenticated(ctx); err != nil {
		return "", fmt.Errorf("%w: re-login failed: %v", ErrSessionExpired, err)
	}

	body, expired, err = s.fetchOnce(ctx, pageURL)
	if err != nil {
		return "", err
	}
	if expired {
		s.session.Invalidate()
		return "", ErrSessionExpired
	}
	return body, nil
}

// fetchOnce performs one authenticated GET and reports whether the response
// is the login redirect stub, i.e. the session has expired.
func (s *Service) fetchOnce(ctx context.Context, pageURL string) (body string, expired bool, err error) {
	resp, err := s.client.Get(ctx, pageURL, s.session.CookieMap(), nil)
	if err != nil {
		return "", false, err
	}
	s.session.AbsorbCookies(resp.Cookies)

	if resp.IsRedirect() && strings.Contains(resp.Location(), loginPageMarker) {
		return "", true, nil
	}
	body = resp.Text()
	if strings.Contains(body, loginPageMarker) && len(body) < sessionExpiryLimit {
		return "", true, nil
	}
	return body, false, nil
}

// GetBug fetches and extracts one bug view page.
func (s *Service) GetBug(ctx context.Context, bugID string) (*models.BugRecord, error) {
	body, err := s.fetchPage(ctx, s.session.BaseURL()+bugViewPath+url.QueryEscape(bugID))
	if err != nil {
		return nil, err
	}
	doc, err := extract.NewDocument(body)
	if err != nil {
		return nil, fmt.Errorf("parse bug page: %w", err)
	}

	record := models.NewBugRecord(bugID)
	result := extract.Record(doc, s.bugSpec, record.FieldTargets(), s.session.BaseURL(), s.logger)
	record.Title = result.Title
	record.Images = result.Images
	record.History = result.History
	return record, nil
}

// GetMarketBug fetches and extracts one market bug view page.
func (s *Service) GetMarketBug(ctx context.Context, marketBugID string) (*models.MarketBugRecord, error) {
	body, err := s.fetchPage(ctx, s.session.BaseURL()+marketViewPath+url.QueryEscape(marketBugID))
	if err != nil {
		return nil, err
	}
	doc, err := extract.NewDocument(body)
	if err != nil {
		return nil, fmt.Errorf("parse market bug page: %w", err)
	}

	record := models.NewMarketBugRecord(marketBugID)
	result := extract.Record(doc, s.marketSpec, record.FieldTargets(), s.session.BaseURL(), s.logger)
	record.Title = result.Title
	record.Images = result.Images
	record.History = result.History
	return record, nil
}

// GetMyBugs lists bugs assigned to the logged-in account. The status filter
// is best-effort: the work listing does not always expose a status column,
// and entries without one are kept.
func (s *Service) GetMyBugs(ctx context.Context, status string, limit int) (*models.BugList, error) {
	if limit <= 0 {
		limit = s.defaultListLimit
	}
	body, err := s.fetchPage(ctx, s.session.BaseURL()+myBugsPath)
	if err != nil {
		return nil, err
	}
	doc, err := extract.NewDocument(body)
	if err != nil {
		return nil, fmt.Errorf("parse bug list page: %w", err)
	}

	list := extract.List(doc, s.myWorkLayout, limit, myBugsLabel, s.session.BaseURL())
	filterByStatus(list, status, myBugsLabel)
	return list, nil
}

// GetMyMarketBugs lists market bugs assigned to the logged-in account.
func (s *Service) GetMyMarketBugs(ctx context.Context, limit int) (*models.BugList, error) {
	if limit <= 0 {
		limit = s.defaultListLimit
	}
	body, err := s.fetchPage(ctx, s.session.BaseURL()+myMarketBugsPath)
	if err != nil {
		return nil, err
	}
	doc, err := extract.NewDocument(body)
	if err != nil {
		return nil, fmt.Errorf("parse market bug list page: %w", err)
	}

	return extract.List(doc, s.marketLayout, limit, myMarketBugsLabel, s.session.BaseURL()), nil
}

// filterByStatus drops entries whose visible status contradicts the requested
// filter. "active" is the server-side default view and filters nothing.
func filterByStatus(list *models.BugList, status, label string) {
	if status == "" || status == "active" {
		return
	}
	kept := list.Bugs[:0]
	for _, entry := range list.Bugs {
		if entry.Status == "" || strings.Contains(entry.Status, status) {
			kept = append(kept, entry)
		}
	}
	if len(kept) == len(list.Bugs) {
		return
	}
	list.Bugs = kept
	list.Total = len(kept)
	if len(kept) == 0 {
		list.Message = "暂无" + label
	} else {
		list.Message = fmt.Sprintf("找到 %d 个%s", len(kept), label)
	}
}
