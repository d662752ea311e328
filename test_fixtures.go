package main

// MockAnnualRecord creates a test annual registration record
func MockAnnualRecord(name, dataType string, year int, registrations int64) AnnualRecord {
	return AnnualRecord{
		Name:          name,
		DataType:      dataType,
		Year:          year,
		Registrations: registrations,
	}
}

// MockMonthlyRecord creates a test monthly registration record
func MockMonthlyRecord(name, dataType string, year int, month string, registrations int64) MonthlyRecord {
	return MonthlyRecord{
		Name:          name,
		DataType:      dataType,
		Year:          year,
		Month:         month,
		Registrations: registrations,
	}
}

// MockDataset creates a loaded dataset with known growth numbers.
// Category totals per year: 2W 100/120/110 (YoY +20.00 then -8.33),
// 3W 50/55 (+10.00), 4W 200 in 2022 and 220 in 2024 (+10.00 across the
// gap year). Quarterly 2W totals: 24 in 2023-Q4, then 30 (+25.00) and
// 36 (+20.00) in 2024.
func MockDataset() *Dataset {
	return &Dataset{
		Annual: []AnnualRecord{
			// Categories carry the raw portal labels; the dashboards map
			// them onto wheeler buckets at analysis time
			MockAnnualRecord("TWO WHEELER(NT)", DataTypeCategory, 2022, 60),
			MockAnnualRecord("TWO WHEELER(T)", DataTypeCategory, 2022, 40),
			MockAnnualRecord("TWO WHEELER(NT)", DataTypeCategory, 2023, 75),
			MockAnnualRecord("TWO WHEELER(T)", DataTypeCategory, 2023, 45),
			MockAnnualRecord("TWO WHEELER(NT)", DataTypeCategory, 2024, 70),
			MockAnnualRecord("TWO WHEELER(T)", DataTypeCategory, 2024, 40),
			MockAnnualRecord("THREE WHEELER(T)", DataTypeCategory, 2023, 50),
			MockAnnualRecord("THREE WHEELER(T)", DataTypeCategory, 2024, 55),
			MockAnnualRecord("LIGHT MOTOR VEHICLE", DataTypeCategory, 2022, 200),
			MockAnnualRecord("LIGHT MOTOR VEHICLE", DataTypeCategory, 2024, 220),
			MockAnnualRecord("HERO MOTOCORP LTD", DataTypeManufacturer, 2022, 500),
			MockAnnualRecord("HERO MOTOCORP LTD", DataTypeManufacturer, 2023, 550),
			MockAnnualRecord("HERO MOTOCORP LTD", DataTypeManufacturer, 2024, 605),
			MockAnnualRecord("BAJAJ AUTO LTD", DataTypeManufacturer, 2023, 300),
			MockAnnualRecord("BAJAJ AUTO LTD", DataTypeManufacturer, 2024, 285),
		},
		Monthly: []MonthlyRecord{
			MockMonthlyRecord("TWO WHEELER(NT)", DataTypeCategory, 2023, "OCT", 8),
			MockMonthlyRecord("TWO WHEELER(NT)", DataTypeCategory, 2023, "NOV", 8),
			MockMonthlyRecord("TWO WHEELER(NT)", DataTypeCategory, 2023, "DEC", 8),
			MockMonthlyRecord("TWO WHEELER(NT)", DataTypeCategory, 2024, "JAN", 10),
			MockMonthlyRecord("TWO WHEELER(NT)", DataTypeCategory, 2024, "FEB", 10),
			MockMonthlyRecord("TWO WHEELER(NT)", DataTypeCategory, 2024, "MAR", 10),
			MockMonthlyRecord("TWO WHEELER(NT)", DataTypeCategory, 2024, "APR", 12),
			MockMonthlyRecord("TWO WHEELER(NT)", DataTypeCategory, 2024, "MAY", 12),
			MockMonthlyRecord("TWO WHEELER(NT)", DataTypeCategory, 2024, "JUN", 12),
			MockMonthlyRecord("HERO MOTOCORP LTD", DataTypeManufacturer, 2024, "JAN", 100),
			MockMonthlyRecord("HERO MOTOCORP LTD", DataTypeManufacturer, 2024, "FEB", 110),
			MockMonthlyRecord("HERO MOTOCORP LTD", DataTypeManufacturer, 2024, "MAR", 90),
			MockMonthlyRecord("HERO MOTOCORP LTD", DataTypeManufacturer, 2024, "APR", 100),
			MockMonthlyRecord("HERO MOTOCORP LTD", DataTypeManufacturer, 2024, "MAY", 100),
			MockMonthlyRecord("HERO MOTOCORP LTD", DataTypeManufacturer, 2024, "JUN", 110),
		},
	}
}

// MockAnnualReportTable creates the flattened columns and rows of a
// scraped annual report for the given data type. The maker table carries
// a zero cell and a blank cell that unpivoting must drop.
func MockAnnualReportTable(dataType string) ([]string, [][]string) {
	if dataType == DataTypeCategory {
		columns := []string{
			"S No_S No", "Vehicle Category_Vehicle Category",
			"Calendar Year_2023", "Calendar Year_2024", "TOTAL_TOTAL",
		}
		rows := [][]string{
			{"1", "TWO WHEELER(NT)", "75", "70", "145"},
			{"2", "TWO WHEELER(T)", "45", "40", "85"},
			{"3", "THREE WHEELER(T)", "50", "55", "105"},
			{"4", "LIGHT MOTOR VEHICLE", "210", "220", "430"},
		}
		return columns, rows
	}

	columns := []string{
		"S No_S No", "Maker_Maker",
		"Calendar Year_2022", "Calendar Year_2023", "Calendar Year_2024", "TOTAL_TOTAL",
	}
	rows := [][]string{
		{"1", "HERO MOTOCORP LTD", "500", "550", "605", "1655"},
		{"2", "BAJAJ AUTO LTD", "0", "300", "285", "585"},
		{"3", "TVS MOTOR COMPANY LTD", "", "120", "130", "250"},
	}
	return columns, rows
}

// MockMonthlyReportTable creates the flattened columns and rows of a
// scraped monthly report for the given data type.
func MockMonthlyReportTable(dataType string) ([]string, [][]string) {
	if dataType == DataTypeCategory {
		columns := []string{
			"S No_S No", "Vehicle Category_Vehicle Category",
			"Month Wise_JAN", "Month Wise_FEB", "TOTAL_TOTAL",
		}
		rows := [][]string{
			{"1", "TWO WHEELER(NT)", "10", "12", "22"},
			{"2", "THREE WHEELER(T)", "5", "6", "11"},
		}
		return columns, rows
	}

	columns := []string{
		"S No_S No", "Maker_Maker",
		"Month Wise_JAN", "Month Wise_FEB", "Month Wise_MAR", "TOTAL_TOTAL",
	}
	rows := [][]string{
		{"1", "HERO MOTOCORP LTD", "100", "110", "90", "300"},
		{"2", "BAJAJ AUTO LTD", "50", "0", "60", "110"},
	}
	return columns, rows
}

// MockReportPageHTML is a report page the way the portal renders it: a
// decorative navigation table followed by the data table with a grouped
// two-row header and Indian-grouped counts.
const MockReportPageHTML = `<!DOCTYPE html>
<html>
<body>
<table>
<thead><tr><th>Dashboard</th><th>Reports</th><th>Help</th></tr></thead>
<tbody><tr><td>Home</td><td>Reports</td><td>About</td></tr></tbody>
</table>
<div id="vchgroupTable">
<table role="grid">
<thead>
<tr>
<th rowspan="2"><span class="ui-column-title">S No</span></th>
<th rowspan="2"><span class="ui-column-title">Maker</span></th>
<th colspan="2"><span class="ui-column-title">Calendar Year</span></th>
<th rowspan="2"><span class="ui-column-title">TOTAL</span></th>
</tr>
<tr>
<th><span class="ui-column-title">2023</span></th>
<th><span class="ui-column-title">2024</span></th>
</tr>
</thead>
<tbody>
<tr><td>1</td><td>HERO MOTOCORP LTD</td><td>5,50,000</td><td>6,05,000</td><td>11,55,000</td></tr>
<tr><td>2</td><td>BAJAJ AUTO LTD</td><td>3,00,000</td><td>2,85,000</td><td>5,85,000</td></tr>
<tr><td>3</td><td>TVS MOTOR COMPANY LTD</td><td>1,20,000</td><td>1,30,000</td><td>2,50,000</td></tr>
</tbody>
</table>
</div>
</body>
</html>`
