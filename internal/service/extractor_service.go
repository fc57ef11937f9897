package service

import (
	"regexp"
	"strings"
)

// ExtractorService 把转发来的自由格式测验文本解析成结构化题目。
// Clean 与 Extract 都是纯函数：解析失败时降级返回（空选项、-1、空解释），
// 绝不丢失原始题干。
type ExtractorService struct{}

func NewExtractorService() *ExtractorService {
	return &ExtractorService{}
}

// Extraction 一次解析的结果
type Extraction struct {
	Text         string
	Options      []string
	CorrectIndex int
	Explanation  string
}

var (
	// 倒计时图标所在行整行丢弃
	countdownGlyphs = []string{"⏳", "⌛", "⏱", "⏰"}

	// "剩余时间"类短语（阿拉伯语/英语），仅在短行里出现时才视为噪声
	timePhrases        = []string{"ثانية", "ثوان", "الوقت المتبقي", "time left", "sec"}
	timePhraseMaxLen   = 30
	timerLineRe        = regexp.MustCompile(`^\d{1,2}[:.]\d{1,2}$`)
	checkmarkRe        = regexp.MustCompile(`[✅✔]`)
	optionLineRe       = regexp.MustCompile(`^([أ-يa-zA-Z]|\d{1,2})\s*[)\.\-–—]\s*(\S.*)$`)
	optionFallbackRe   = regexp.MustCompile(`^([أ-يa-zA-Z]|\d{1,2})\s+(\S.*)$`)
	answerPhraseRe     = regexp.MustCompile(`(?:الإجابة الصحيحة|الاجابة الصحيحة|correct answer)(?:\s*(?:هي|is))?\s*[:：]?\s*\(?\s*([أ-يa-zA-Z0-9])`)
	arabicLabelRe      = regexp.MustCompile(`[أ-ي]`)
	digitLabelRe       = regexp.MustCompile(`\d+`)
	explanationMarkers = []string{"الشرح", "التفسير", "التوضيح", "explanation", "شرح:", "💡", "📝", "📚"}
	explanationConns   = []string{"لأن", "وذلك", "because"}

	// 固定的字母→下标表；选项里实际用过的标签优先于这张表
	arabicLabelIndex = map[string]int{
		"أ": 0, "ا": 0,
		"ب": 1,
		"ج": 2,
		"د": 3,
		"ه": 4, "هـ": 4,
		"و": 5,
	}
)

// Clean 去掉行级噪声：倒计时图标行、短的"剩余时间"行、纯 MM:SS 计时行。
// 空行保留，后续解析用它作结构分隔。对已清洗文本再次调用结果不变。
func (s *ExtractorService) Clean(raw string) string {
	lines := strings.Split(raw, "\n")
	cleaned := make([]string, 0, len(lines))

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			cleaned = append(cleaned, line)
			continue
		}

		if containsAny(trimmed, countdownGlyphs) {
			continue
		}

		lower := strings.ToLower(trimmed)
		if len([]rune(trimmed)) <= timePhraseMaxLen && containsAny(lower, timePhrases) {
			continue
		}

		if timerLineRe.MatchString(trimmed) {
			continue
		}

		cleaned = append(cleaned, line)
	}

	return strings.Join(cleaned, "\n")
}

// Extract 逐行解析清洗后的文本。分类互斥且有固定优先级：
// 选项 > 正确答案行 > 解释块 > 题干。
func (s *ExtractorService) Extract(cleaned string) Extraction {
	lines := strings.Split(cleaned, "\n")
	claimed := make([]bool, len(lines))

	options := []string{}
	labels := []string{}
	correctIndex := -1

	// 1. 选项识别：标签 + 分隔符 + 内容；行内 ✅ 直接确定正确答案
	matchOptions := func(re *regexp.Regexp) {
		for i, line := range lines {
			trimmed := strings.TrimSpace(line)
			if trimmed == "" {
				continue
			}
			m := re.FindStringSubmatch(trimmed)
			if m == nil {
				continue
			}
			claimed[i] = true
			text := trimmed
			if checkmarkRe.MatchString(text) {
				text = strings.TrimSpace(checkmarkRe.ReplaceAllString(text, ""))
				if correctIndex == -1 {
					correctIndex = len(options)
				}
			}
			options = append(options, text)
			labels = append(labels, m[1])
		}
	}

	matchOptions(optionLineRe)
	if len(options) == 0 {
		// 无分隔符的回退模式只尝试一次
		matchOptions(optionFallbackRe)
	}

	// 2. 显式"正确答案"声明（仅在第1步没有确定时）
	if correctIndex == -1 {
		for i, line := range lines {
			if claimed[i] {
				continue
			}
			trimmed := strings.TrimSpace(line)
			if trimmed == "" {
				continue
			}
			if !checkmarkRe.MatchString(trimmed) && !answerPhraseRe.MatchString(trimmed) {
				continue
			}

			label := extractAnswerLabel(trimmed)
			if label != "" {
				correctIndex = resolveLabel(label, labels)
			}
			claimed[i] = true
			break // 多个标记时以首个出现为准
		}
	}

	if correctIndex >= len(options) {
		correctIndex = -1
	}

	// 3. 解释块：从首个解释标记行开始，连续非空行直到空行或文本结束
	explanation := s.claimExplanation(lines, claimed)

	// 4. 余下的行构成题干
	var questionLines []string
	for i, line := range lines {
		if !claimed[i] {
			questionLines = append(questionLines, line)
		}
	}

	return Extraction{
		Text:         strings.TrimSpace(strings.Join(questionLines, "\n")),
		Options:      options,
		CorrectIndex: correctIndex,
		Explanation:  explanation,
	}
}

func (s *ExtractorService) claimExplanation(lines []string, claimed []bool) string {
	start := -1
	for i, line := range lines {
		if claimed[i] {
			continue
		}
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		lower := strings.ToLower(trimmed)
		if startsWithAny(lower, explanationMarkers) || containsAny(lower, explanationConns) {
			start = i
			break
		}
	}
	if start == -1 {
		return ""
	}

	var block []string
	for i := start; i < len(lines); i++ {
		trimmed := strings.TrimSpace(lines[i])
		if trimmed == "" {
			break
		}
		if claimed[i] {
			continue
		}
		claimed[i] = true
		block = append(block, trimmed)
	}
	return strings.Join(block, "\n")
}

// extractAnswerLabel 从答案声明行里找出标签字符
func extractAnswerLabel(line string) string {
	if m := answerPhraseRe.FindStringSubmatch(line); m != nil {
		return m[1]
	}
	// 没有短语时退回逐字符查找：先阿拉伯字母，再数字
	stripped := checkmarkRe.ReplaceAllString(line, "")
	if m := arabicLabelRe.FindString(stripped); m != "" {
		return m
	}
	if m := digitLabelRe.FindString(stripped); m != "" {
		return m
	}
	return ""
}

// resolveLabel 标签到下标的解析顺序：已识别选项的标签 → 固定字母表 →
// 数字减一 → 拉丁字母位置。转发来的测验可能使用与静态表冲突的本地化
// 标签字符，所以选项内标签优先。
func resolveLabel(label string, optionLabels []string) int {
	for i, l := range optionLabels {
		if strings.EqualFold(l, label) {
			return i
		}
	}

	if idx, ok := arabicLabelIndex[label]; ok {
		return idx
	}

	if len(label) == 1 && label[0] >= '0' && label[0] <= '9' {
		return int(label[0]-'0') - 1
	}

	r := []rune(strings.ToLower(label))
	if len(r) == 1 && r[0] >= 'a' && r[0] <= 'z' {
		return int(r[0] - 'a')
	}

	return -1
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func startsWithAny(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}
