package handlers

import (
	"strings"

	"smartedtech/internal/models"
	"smartedtech/internal/service"
	"smartedtech/internal/validation"
)

// NavLink is one sidebar entry
type NavLink struct {
	Href   string
	Label  string
	Active bool
}

var navItems = []NavLink{
	{Href: "/", Label: "Dashboard"},
	{Href: "/performance", Label: "Performance"},
	{Href: "/schedule", Label: "Exams Schedule"},
	{Href: "/rank", Label: "Leaderboards"},
	{Href: "/resources", Label: "Resources"},
	{Href: "/adaptive-practice", Label: "Adaptive Practice"},
	{Href: "/personalized-tutor", Label: "Personalized Tutor"},
	{Href: "/performance-booster", Label: "Performance Booster"},
	{Href: "/profile", Label: "Profile"},
}

// isActiveLink matches a nav href against the current path and its
// subpages. "/" only matches itself.
func isActiveLink(path, href string) bool {
	return path == href || (href != "/" && strings.HasPrefix(path, href+"/"))
}

// Navigation returns the sidebar links with the current one marked
func Navigation(currentPath string) []NavLink {
	links := make([]NavLink, len(navItems))
	for i, item := range navItems {
		item.Active = isActiveLink(currentPath, item.Href)
		links[i] = item
	}
	return links
}

// PageData is shared by every page rendered inside the sidebar layout
type PageData struct {
	Title       string
	User        *models.User
	CurrentPath string
	CSRFToken   string
	Nav         []NavLink
	Error       string
	Success     string
}

type SignInViewData struct {
	Title     string
	Error     string
	Email     string
	LoginType string
	Redirect  string
	DemoHint  bool
}

type RegisterViewData struct {
	Title      string
	Error      string
	Errors     []string
	Name       string
	Email      string
	Rules      []validation.PasswordRule
	Registered bool
}

type ResetPasswordViewData struct {
	Title string
	Error string
	Email string
	Sent  bool
}

type DashboardViewData struct {
	PageData
	Summary     *models.DashboardSummary
	Assignments []models.Assignment
	Activities  []models.Activity
	Name        string
	Level       int
}

type PracticeListViewData struct {
	PageData
	Entries  []service.Entry[models.AdaptivePractice]
	Subjects []string
	Subject  string
}

type PracticeDetailViewData struct {
	PageData
	Practice  *models.AdaptivePractice
	Resources []models.PracticeResource
	Unsynced  bool
}

type TutorListViewData struct {
	PageData
	Entries  []service.Entry[models.TutorSession]
	Subjects []string
	Subject  string
	History  []models.PerformanceHistory
}

type TutorDetailViewData struct {
	PageData
	Session   *models.TutorSession
	Questions []service.QuestionReview
	Review    *service.QuizReview
}

type BoosterFormViewData struct {
	PageData
	Assignments []models.Assignment
	Boosters    []models.Booster
	Form        validation.BoosterForm
	Errors      []string
}

type BoosterDetailViewData struct {
	PageData
	Booster    *models.Booster
	Strategies []string
	Resources  []models.BoosterResource
	Guidance   string
	Reviews    []service.AssessmentReview
	Submitted  bool
	Correct    int
	Graded     int
	Demo       bool
}

type ScheduleViewData struct {
	PageData
	Upcoming []models.ScheduleItem
	Past     []models.ScheduleItem
	Form     validation.ScheduleForm
	Errors   []string
}

type PerformanceViewData struct {
	PageData
	Subjects []models.PerformanceSubject
	Stats    models.PerformanceOverview
}

type RankViewData struct {
	PageData
	Heading  string
	TopThree []models.LeaderboardEntry
	Rest     []models.LeaderboardEntry
}

type ResourcesViewData struct {
	PageData
	Categories []models.ResourceCategory
}

type ProfileViewData struct {
	PageData
	Level           int
	Points          int
	NextLevelPoints int
	XPProgress      float64
	CoursesEnrolled int
	Errors          []string
}
