package dashboard

import (
	"time"

	"healthbridge/internal/report"
)

type UserInfo struct {
	Name     string `json:"name"`
	UniqueID string `json:"uniqueId"`
	Country  string `json:"country"`
}

type RefugeeStats struct {
	Consultations int `json:"consultations"`
	DaysActive    int `json:"daysActive"`
	ArticlesRead  int `json:"articlesRead"`
}

type Activity struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Time        time.Time `json:"time"`
	Status      string    `json:"status"`
}

type Contact struct {
	Name   string `json:"name"`
	Number string `json:"number"`
	Type   string `json:"type"`
}

type Appointment struct {
	Clinic   string `json:"clinic"`
	Type     string `json:"type"`
	Date     string `json:"date"`
	Location string `json:"location"`
}

type Tip struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

type RefugeeDashboard struct {
	User              UserInfo                  `json:"user"`
	HealthScore       int                       `json:"healthScore"`
	Stats             RefugeeStats              `json:"stats"`
	RecentActivity    []Activity                `json:"recentActivity"`
	MedicationHistory []report.MedicationRecord `json:"medicationHistory"`
	EmergencyContacts []Contact                 `json:"emergencyContacts"`
	NextAppointment   Appointment               `json:"nextAppointment"`
	DailyHealthTip    Tip                       `json:"dailyHealthTip"`
}

type NGOStats struct {
	TotalCases         int `json:"totalCases"`
	ActiveCases        int `json:"activeCases"`
	ResolvedCases      int `json:"resolvedCases"`
	UrgentCases        int `json:"urgentCases"`
	TodayConsultations int `json:"todayConsultations"`
	WeeklyGrowth       int `json:"weeklyGrowth"`
}

type DayCount struct {
	Day      string `json:"day"`
	Cases    int    `json:"cases"`
	Resolved int    `json:"resolved"`
}

type SeverityCount struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
	Color string `json:"color"`
}

type NGODashboard struct {
	Stats                NGOStats        `json:"stats"`
	WeeklyData           []DayCount      `json:"weeklyData"`
	SeverityDistribution []SeverityCount `json:"severityDistribution"`
}
