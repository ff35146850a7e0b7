package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"factory-app/config"
	"factory-app/database"
	"factory-app/models"
	"factory-app/repositories"

	"gopkg.in/gomail.v2"
	"gorm.io/gorm"
)

// Processor hasil curing: file CSV dari timbangan/checker lapangan
// di-drop ke folder, satu baris per batch (batch_no, passed, damaged, location).

type curingResult struct {
	BatchNo  string
	Passed   int
	Damaged  int
	Location string
	Err      string
}

// parseCuringRow membaca satu baris CSV. Angka yang tidak valid dilaporkan
// sebagai error baris itu, bukan diam-diam jadi 0.
func parseCuringRow(record []string) curingResult {
	result := curingResult{BatchNo: strings.TrimSpace(record[0])}

	var err error
	result.Passed, err = strconv.Atoi(strings.TrimSpace(record[1]))
	if err != nil {
		result.Err = "invalid passed quantity: " + strings.TrimSpace(record[1])
		return result
	}
	result.Damaged, err = strconv.Atoi(strings.TrimSpace(record[2]))
	if err != nil {
		result.Err = "invalid damaged quantity: " + strings.TrimSpace(record[2])
		return result
	}
	if len(record) > 3 {
		result.Location = strings.TrimSpace(record[3])
	}
	return result
}

func processAllCSV(db *gorm.DB) {
	files, err := filepath.Glob(filepath.Join(config.CuringDropFolder, "*.csv"))
	if err != nil {
		log.Fatal("Gagal membaca folder:", err)
	}

	for _, file := range files {
		fmt.Println("Memproses file:", file)
		processCuringCSV(db, file)
	}
}

func processCuringCSV(db *gorm.DB, filename string) {
	file, err := os.Open(filename)
	if err != nil {
		fmt.Println("Gagal membuka file:", err)
		return
	}

	reader := csv.NewReader(file)
	records, err := reader.ReadAll()
	if err != nil {
		fmt.Println("Gagal membaca file CSV:", err)
		file.Close()
		return
	}

	file.Close() // Tutup file sebelum dipindahkan!

	prodRepo := repositories.NewProductionRepository(db)
	var results []curingResult
	failed := 0

	for i, record := range records {
		if i == 0 {
			continue // Skip header
		}
		if len(record) < 3 {
			continue
		}

		result := parseCuringRow(record)
		if result.Err != "" {
			failed++
			results = append(results, result)
			continue
		}

		var run models.ProductionRun
		if err := db.Where("batch_no = ?", result.BatchNo).Take(&run).Error; err != nil {
			result.Err = "batch not found"
			failed++
			results = append(results, result)
			continue
		}

		if _, err := prodRepo.CompleteCuring(run.ID, result.Passed, result.Damaged, result.Location, 0); err != nil {
			result.Err = err.Error()
			failed++
		}
		results = append(results, result)
	}

	if err := sendSummaryEmail(filepath.Base(filename), results, failed); err != nil {
		fmt.Println("Gagal mengirim email:", err)
	}

	time.Sleep(1 * time.Second)

	targetFolder := filepath.Join(config.CuringDropFolder, "processed")
	if failed > 0 {
		targetFolder = filepath.Join(config.CuringDropFolder, "failed")
	}

	if _, err := os.Stat(targetFolder); os.IsNotExist(err) {
		if err := os.MkdirAll(targetFolder, os.ModePerm); err != nil {
			log.Fatalf("Gagal membuat folder: %v", err)
		}
	}

	targetPath := filepath.Join(targetFolder, filepath.Base(filename))
	if err := os.Rename(filename, targetPath); err != nil {
		fmt.Println("Rename gagal, coba metode copy & delete...")
		if err := copyAndDeleteFile(filename, targetPath); err != nil {
			log.Fatalf("Gagal memindahkan file: %v", err)
		}
	}

	fmt.Println("Selesai:", filename, "- gagal:", failed)
}

func copyAndDeleteFile(src, dst string) error {
	sourceFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer sourceFile.Close()

	destinationFile, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer destinationFile.Close()

	_, err = io.Copy(destinationFile, sourceFile)
	if err != nil {
		return err
	}

	return os.Remove(src)
}

func sendSummaryEmail(filename string, results []curingResult, failed int) error {
	if config.ReportTarget == "" || config.SenderEmail == "" {
		return nil
	}

	var rows strings.Builder
	for _, r := range results {
		status := "OK"
		if r.Err != "" {
			status = r.Err
		}
		rows.WriteString(fmt.Sprintf("<tr><td>%s</td><td>%d</td><td>%d</td><td>%s</td></tr>",
			r.BatchNo, r.Passed, r.Damaged, status))
	}

	subject := fmt.Sprintf("Curing result %s (%d rows, %d failed)", filename, len(results), failed)
	body := fmt.Sprintf(`
		<html>
			<body>
				<h3>Curing result file processed</h3>
				<table border="1" cellpadding="4">
					<tr><th>Batch</th><th>Passed</th><th>Damaged</th><th>Status</th></tr>
					%s
				</table>
				<p>This is an auto-generated email. Please do not reply to this email or its recipients.</p>
			</body>
		</html>
	`, rows.String())

	msg := gomail.NewMessage()
	msg.SetHeader("From", config.SenderEmail)
	msg.SetHeader("To", config.ReportTarget)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", body)

	dialer := gomail.NewDialer(config.SMTPHost, config.SMTPPort, config.SenderEmail, config.SenderPass)
	return dialer.DialAndSend(msg)
}

func main() {
	db, err := database.OpenDatabaseConnection(config.DBName)
	if err != nil {
		log.Fatalf("Gagal konek ke database: %v", err)
	}

	fmt.Println("Processor hasil curing berjalan...")

	processAllCSV(db)

	fmt.Println("Semua file CSV diproses!")
}
