package views

import (
	"fmt"

	"github.com/pterm/pterm"
)

type SystemInfoItem struct {
	ConfigPath      string
	DBDriver        string
	DBPath          string
	DBExists        bool // true = Found, false = Not Found
	DefaultCurrency string
	Decimals        int32
	RemainderPolicy string
	GracePeriod     string
	KafkaBrokers    []string
	AppDataDir      string
}

func RenderSystemInfo(data SystemInfoItem) error {
	dbStatus := pterm.Green("Found")
	if !data.DBExists {
		dbStatus = pterm.Red("Not Found (Will be created)")
	}
	if data.DBDriver == "memory" {
		dbStatus = pterm.Yellow("In memory (not persisted)")
	}

	events := pterm.Gray("local bus only")
	if len(data.KafkaBrokers) > 0 {
		events = fmt.Sprintf("local bus + kafka %v", data.KafkaBrokers)
	}

	configPath := data.ConfigPath
	if configPath == "" {
		configPath = pterm.Gray("none (defaults)")
	}

	tableData := pterm.TableData{
		{"Configuration File", configPath},
		{"Database Driver", data.DBDriver},
		{"Database Path", data.DBPath},
		{"Database Status", dbStatus},
		{"Default Currency", data.DefaultCurrency},
		{"Decimals", fmt.Sprint(data.Decimals)},
		{"Split Remainder", data.RemainderPolicy},
		{"EMI Grace Period", data.GracePeriod},
		{"Events", events},
		{"AppData Directory", data.AppDataDir},
	}

	return pterm.DefaultTable.WithData(tableData).Render()
}
